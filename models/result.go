package models

// The BacktestResult struct contains everything a completed (or failed) run
// produced. On failure the curve and trade log hold the partial results up to
// the failing bar.
type BacktestResult struct {
	ID       string
	Symbol   string
	Strategy string
	Status   string

	StartingCash float64
	EndingEquity float64
	ReturnPct    float64

	EquityCurve []EquityPoint
	Trades      []Trade
	Summary     RiskReport
	Stats       TradeStats

	FailedAtBar int // -1 unless the run failed
	FailureMsg  string
}
