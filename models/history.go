package models

// EquityPoint is one entry of a backtest equity curve.
type EquityPoint struct {
	Timestamp int64   `csv:"timestamp"`
	Equity    float64 `csv:"equity"`
	Cash      float64 `csv:"cash"`
	Quantity  float64 `csv:"quantity"`
	Price     float64 `csv:"price"`
}
