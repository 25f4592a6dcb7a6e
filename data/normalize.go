// Package data holds the storage collaborators of the core: bar providers,
// the bar normalizer and persisted history records.
package data

import (
	"github.com/sutralabs/sutra/models"
)

// RawRow is one OHLCV row as delivered by a data provider, before
// normalization. AdjClose is zero when the source carries no adjustment.
type RawRow struct {
	Timestamp int64   `csv:"timestamp" db:"timestamp"`
	Open      float64 `csv:"open" db:"open"`
	High      float64 `csv:"high" db:"high"`
	Low       float64 `csv:"low" db:"low"`
	Close     float64 `csv:"close" db:"close"`
	AdjClose  float64 `csv:"adj_close" db:"adj_close"`
	Volume    float64 `csv:"volume" db:"volume"`
}

// Normalize canonicalizes raw OHLCV rows into immutable bars with a single
// Price column, set to the adjusted close when present and the close
// otherwise. It validates row integrity and strict date ordering and never
// mutates its input. Normalization is a pure function: running it twice on
// the same rows yields identical bars.
func Normalize(rows []RawRow, minBars int) ([]*models.Bar, error) {
	if len(rows) < minBars {
		return nil, &models.InsufficientDataError{Needed: minBars, Available: len(rows), What: "normalization"}
	}
	bars := make([]*models.Bar, len(rows))
	var lastTimestamp int64
	for i, row := range rows {
		if i > 0 && row.Timestamp <= lastTimestamp {
			return nil, &models.DataIntegrityError{Index: i, Reason: "timestamps must be strictly increasing with no duplicates"}
		}
		lastTimestamp = row.Timestamp
		if row.High < row.Low {
			return nil, &models.DataIntegrityError{Index: i, Reason: "high below low"}
		}
		if row.Open <= 0 || row.High <= 0 || row.Low <= 0 || row.Close <= 0 {
			return nil, &models.DataIntegrityError{Index: i, Reason: "non-positive price"}
		}
		if row.AdjClose < 0 {
			return nil, &models.DataIntegrityError{Index: i, Reason: "negative adjusted close"}
		}
		if row.Volume < 0 {
			return nil, &models.DataIntegrityError{Index: i, Reason: "negative volume"}
		}
		price := row.Close
		if row.AdjClose > 0 {
			price = row.AdjClose
		}
		bars[i] = &models.Bar{
			Timestamp: row.Timestamp,
			Open:      row.Open,
			High:      row.High,
			Low:       row.Low,
			Close:     row.Close,
			AdjClose:  row.AdjClose,
			Volume:    row.Volume,
			Price:     price,
		}
	}
	return bars, nil
}
