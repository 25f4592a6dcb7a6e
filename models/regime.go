package models

// RegimeType is a categorical market-state label.
type RegimeType string

const (
	Ranging       RegimeType = "RANGING"
	TrendingUp    RegimeType = "TRENDING_UP"
	TrendingDown  RegimeType = "TRENDING_DOWN"
	Volatile      RegimeType = "VOLATILE"
	Transitioning RegimeType = "TRANSITIONING"
)

// RegimeMetrics is a snapshot of the inputs a classification was made from.
// Volatility values are annualized decimal fractions, matching the thresholds
// they are compared against.
type RegimeMetrics struct {
	Price         float64
	AnnualizedVol float64
	SMA           float64
	SMASlope      float64
	ADX           float64
	PlusDI        float64
	MinusDI       float64
}

// RegimeClassification is produced fresh per evaluation and never mutated.
// Rationale cites the exact metric value and threshold that triggered the
// decision.
type RegimeClassification struct {
	Type       RegimeType
	Confidence float64
	Rationale  string
	Metrics    RegimeMetrics
}
