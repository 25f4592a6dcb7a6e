package models

// RiskReport carries explicit horizon and annualization metadata on every
// value so a consumer never needs to infer units.
type RiskReport struct {
	VolDaily      float64 // stddev of per-bar returns
	VolAnnualized float64 // VolDaily * sqrt(TradingDaysPerYear)

	VaR           float64 // empirical quantile loss over HorizonDays
	CVaR          float64 // expected loss beyond VaR, CVaR <= VaR
	VaRParametric float64 // gaussian quantile loss over HorizonDays

	VaRConfidence  float64
	CVaRConfidence float64
	HorizonDays    int

	Sharpe           float64 // annualized
	Sortino          float64 // annualized, downside deviation only
	Calmar           float64 // annualized return over abs max drawdown
	AnnualizedReturn float64
	MaxDrawdown      float64 // peak-to-trough, negative or zero

	TradingDaysPerYear int
	ReturnKind         string
	SampleSize         int
}
