package data

import (
	"github.com/jmoiron/sqlx"

	"github.com/sutralabs/sutra/models"
)

// RecordVersion is the current version of the persisted history record
// schema. Records written before the schema was versioned load as version 0.
const RecordVersion = 2

// HistoryRecord is one persisted backtest outcome. The schema carries an
// explicit version tag; older records are migrated on load, never inline in
// business logic.
type HistoryRecord struct {
	Version   int     `db:"version" json:"version"`
	Timestamp int64   `db:"timestamp" json:"timestamp"`
	Symbol    string  `db:"symbol" json:"symbol"`
	Strategy  string  `db:"strategy" json:"strategy"`
	ReturnPct float64 `db:"return_pct" json:"return_pct"`
	Sharpe    float64 `db:"sharpe" json:"sharpe"`
	MaxDD     float64 `db:"max_dd" json:"max_dd"`
	RunID     string  `db:"run_id" json:"run_id"`
}

// migrations holds one pure function per version transition.
var migrations = map[int]func(map[string]interface{}) map[string]interface{}{
	0: migrateV0toV1,
	1: migrateV1toV2,
}

// migrateV0toV1 normalizes legacy field names to the canonical schema:
// strategy <- strategy_name <- model, return_pct <- total_return <- return.
func migrateV0toV1(raw map[string]interface{}) map[string]interface{} {
	out := copyRecord(raw)
	if _, ok := out["strategy"]; !ok {
		if v, ok := out["strategy_name"]; ok {
			out["strategy"] = v
		} else if v, ok := out["model"]; ok {
			out["strategy"] = v
		}
	}
	if _, ok := out["return_pct"]; !ok {
		if v, ok := out["total_return"]; ok {
			out["return_pct"] = v
		} else if v, ok := out["return"]; ok {
			out["return_pct"] = v
		}
	}
	delete(out, "strategy_name")
	delete(out, "model")
	delete(out, "total_return")
	delete(out, "return")
	out["version"] = 1
	return out
}

// migrateV1toV2 adds the run_id field introduced with batch orchestration.
func migrateV1toV2(raw map[string]interface{}) map[string]interface{} {
	out := copyRecord(raw)
	if _, ok := out["run_id"]; !ok {
		out["run_id"] = ""
	}
	out["version"] = 2
	return out
}

func copyRecord(raw map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	return out
}

// MigrateRecord walks a raw record through every version transition up to
// RecordVersion and builds the canonical struct. Pure: the input map is not
// mutated.
func MigrateRecord(raw map[string]interface{}) HistoryRecord {
	version := 0
	if v, ok := raw["version"]; ok {
		switch n := v.(type) {
		case int:
			version = n
		case int64:
			version = int(n)
		case float64:
			version = int(n)
		}
	}
	for version < RecordVersion {
		migrate, ok := migrations[version]
		if !ok {
			break
		}
		raw = migrate(raw)
		version++
	}
	rec := HistoryRecord{Version: RecordVersion}
	if v, ok := raw["timestamp"].(int64); ok {
		rec.Timestamp = v
	} else if v, ok := raw["timestamp"].(float64); ok {
		rec.Timestamp = int64(v)
	}
	if v, ok := raw["symbol"].(string); ok {
		rec.Symbol = v
	}
	if v, ok := raw["strategy"].(string); ok {
		rec.Strategy = v
	}
	if v, ok := raw["return_pct"].(float64); ok {
		rec.ReturnPct = v
	}
	if v, ok := raw["sharpe"].(float64); ok {
		rec.Sharpe = v
	}
	if v, ok := raw["max_dd"].(float64); ok {
		rec.MaxDD = v
	}
	if v, ok := raw["run_id"].(string); ok {
		rec.RunID = v
	}
	return rec
}

// RecordFromResult builds the persisted record for a completed run.
func RecordFromResult(result *models.BacktestResult, timestamp int64) HistoryRecord {
	return HistoryRecord{
		Version:   RecordVersion,
		Timestamp: timestamp,
		Symbol:    result.Symbol,
		Strategy:  result.Strategy,
		ReturnPct: result.ReturnPct,
		Sharpe:    result.Summary.Sharpe,
		MaxDD:     result.Summary.MaxDrawdown,
		RunID:     result.ID,
	}
}

// SaveRecord persists a history record.
func SaveRecord(db *sqlx.DB, rec HistoryRecord) error {
	_, err := db.NamedExec(`insert into backtest_history (version, timestamp, symbol, strategy, return_pct, sharpe, max_dd, run_id)
		values (:version, :timestamp, :symbol, :strategy, :return_pct, :sharpe, :max_dd, :run_id)`, rec)
	return err
}

// LoadRecords loads all history records for a symbol, migrating any legacy
// rows to the current schema version on the way out.
func LoadRecords(db *sqlx.DB, symbol string) ([]HistoryRecord, error) {
	rows, err := db.Queryx("select * from backtest_history where symbol = $1 order by timestamp", symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []HistoryRecord{}
	for rows.Next() {
		raw := make(map[string]interface{})
		if err := rows.MapScan(raw); err != nil {
			return nil, err
		}
		records = append(records, MigrateRecord(raw))
	}
	return records, rows.Err()
}
