package models

import "time"

// Bar is a single daily price bar. Price is the canonical analysis price,
// set by the normalizer to the adjusted close when one is available and the
// raw close otherwise. Bars are immutable once produced.
type Bar struct {
	Timestamp int64   `csv:"timestamp" db:"timestamp"`
	Open      float64 `csv:"open" db:"open"`
	High      float64 `csv:"high" db:"high"`
	Low       float64 `csv:"low" db:"low"`
	Close     float64 `csv:"close" db:"close"`
	AdjClose  float64 `csv:"adj_close" db:"adj_close"`
	Volume    float64 `csv:"volume" db:"volume"`
	Price     float64 `csv:"price" db:"price"`
}

// Time converts the bar's millisecond timestamp to a time.Time in UTC.
func (b Bar) Time() time.Time {
	return time.Unix(b.Timestamp/1000, 0).UTC()
}
