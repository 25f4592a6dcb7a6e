package models

// Represents concise Open, High, Low, Close, and Volume data in a single
// column-major struct. Price carries the canonical analysis price per bar.
type OHLCV struct {
	Timestamp []int64
	Open      []float64
	High      []float64
	Low       []float64
	Close     []float64
	Volume    []float64
	Price     []float64
}

// Len returns the number of bars held.
func (o OHLCV) Len() int {
	return len(o.Timestamp)
}

// Slice returns a view of the first n bars. The underlying arrays are shared,
// callers must not mutate them.
func (o OHLCV) Slice(n int) OHLCV {
	return OHLCV{
		Timestamp: o.Timestamp[:n],
		Open:      o.Open[:n],
		High:      o.High[:n],
		Low:       o.Low[:n],
		Close:     o.Close[:n],
		Volume:    o.Volume[:n],
		Price:     o.Price[:n],
	}
}
