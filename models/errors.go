package models

import "fmt"

// InsufficientDataError is returned when a computation is asked for a window
// larger than the available history.
type InsufficientDataError struct {
	Needed    int
	Available int
	What      string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %v: need %v bars, have %v", e.What, e.Needed, e.Available)
}

// InvalidSymbolError is returned when a data provider yields no usable data
// for a symbol.
type InvalidSymbolError struct {
	Symbol string
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("no usable data for symbol %v", e.Symbol)
}

// DataIntegrityError is returned for malformed OHLC rows, non-positive prices
// or non-monotonic dates.
type DataIntegrityError struct {
	Index  int
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity violation at bar %v: %v", e.Index, e.Reason)
}

// ConfigurationError is raised eagerly at construction for threshold ordering
// or unit violations, never deferred into a silent misclassification.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %v: %v", e.Field, e.Reason)
}

// SizingError is returned when a quantity violates the fractional-shares
// contract, i.e. it was produced outside the position sizer.
type SizingError struct {
	Quantity float64
	Reason   string
}

func (e *SizingError) Error() string {
	return fmt.Sprintf("invalid quantity %v: %v", e.Quantity, e.Reason)
}

// LevelAnchorError is returned when a Fibonacci or support/resistance anchor
// falls outside its declared lookback window.
type LevelAnchorError struct {
	AnchorTimestamp int64
	WindowStart     int64
	WindowEnd       int64
}

func (e *LevelAnchorError) Error() string {
	return fmt.Sprintf("level anchor %v outside window [%v, %v]", e.AnchorTimestamp, e.WindowStart, e.WindowEnd)
}

// AccountingImbalanceError is returned when cash plus marked-to-market
// position value diverges from tracked equity beyond epsilon.
type AccountingImbalanceError struct {
	BarIndex int
	Tracked  float64
	Computed float64
}

func (e *AccountingImbalanceError) Error() string {
	return fmt.Sprintf("accounting imbalance at bar %v: tracked equity %.8f != cash+positions %.8f", e.BarIndex, e.Tracked, e.Computed)
}
