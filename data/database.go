package data

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/sutralabs/sutra/models"
	"github.com/sutralabs/sutra/settings"
)

// GetBars fetches daily bars for a symbol from the candles table and runs
// them through the normalizer. A symbol with no rows at all surfaces as an
// InvalidSymbolError rather than an empty slice.
func GetBars(cfg settings.DBConfig, symbol string, start time.Time, end time.Time, minBars int) ([]*models.Bar, error) {
	db, err := sqlx.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows := []RawRow{}
	query := fmt.Sprintf("select timestamp, open, high, low, close, adj_close, volume from candles where symbol = $1 and timestamp >= %d and timestamp <= %d order by timestamp",
		start.Unix()*1000, end.Unix()*1000)
	if err := db.Select(&rows, query, symbol); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &models.InvalidSymbolError{Symbol: symbol}
	}
	return Normalize(rows, minBars)
}
