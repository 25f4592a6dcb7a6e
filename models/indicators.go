package models

// IndicatorSet holds the time-aligned indicator series for a bar window.
// Entries before an indicator's warmup are NaN, never zero. Post-warmup
// RSI, ADX, StochK and StochD are bounded to [0, 100] and MACDHist is always
// MACD - MACDSignal.
type IndicatorSet struct {
	RSI        []float64
	MACD       []float64
	MACDSignal []float64
	MACDHist   []float64
	ADX        []float64
	PlusDI     []float64
	MinusDI    []float64
	StochK     []float64
	StochD     []float64
}
