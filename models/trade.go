package models

// Trade is an executed order in a backtest run.
type Trade struct {
	ID         string  `csv:"id"`
	Timestamp  int64   `csv:"timestamp"`
	Symbol     string  `csv:"symbol"`
	Side       string  `csv:"side"`
	Quantity   float64 `csv:"quantity"`
	Price      float64 `csv:"price"`
	Commission float64 `csv:"commission"`
	Slippage   float64 `csv:"slippage"`
}

const (
	Buy  = "buy"
	Sell = "sell"
)
