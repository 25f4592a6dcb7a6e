package models

// Anchor is the bar whose date and price define a level calculation. Anchors
// are exposed so every level is auditable back to its source bar.
type Anchor struct {
	Timestamp int64
	Price     float64
}

// FibLevel is one retracement level between the window's anchors.
type FibLevel struct {
	Ratio float64
	Price float64
}

// FibonacciLevels holds the standard retracement set for a lookback window.
// Levels are ordered from the 0.0 ratio (high anchor for an uptrend window)
// down to the 1.0 ratio.
type FibonacciLevels struct {
	HighAnchor  Anchor
	LowAnchor   Anchor
	Uptrend     bool
	Levels      []FibLevel
	WindowStart int64
	WindowEnd   int64
}

// Level returns the price at a retracement ratio, false when the ratio is not
// part of the computed set.
func (f FibonacciLevels) Level(ratio float64) (float64, bool) {
	for _, l := range f.Levels {
		if l.Ratio == ratio {
			return l.Price, true
		}
	}
	return 0, false
}

// SupportResistance is the set of local-extrema price levels within the
// proximity band of the current price, sorted descending.
type SupportResistance struct {
	Levels       []float64
	CurrentPrice float64
	ProximityPct float64
	WindowStart  int64
	WindowEnd    int64
}
