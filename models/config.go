package models

import (
	"encoding/json"
	"io/ioutil"
)

const (
	LogReturns    = "log"
	SimpleReturns = "simple"
)

// Volatility thresholds below this are assumed to be mis-stated in the wrong
// unit (e.g. a daily fraction instead of an annualized one).
const volSanityFloor = 0.05

// AnalysisConfig is the full configuration surface of the analytics and
// backtest core. It is constructed once per run, validated eagerly and passed
// by value to every component; nothing reads hidden defaults.
type AnalysisConfig struct {
	Symbol string `json:"symbol"`

	// Indicator parameters
	RSIPeriod  int `json:"rsi_period"`
	MACDFast   int `json:"macd_fast"`
	MACDSlow   int `json:"macd_slow"`
	MACDSignal int `json:"macd_signal"`
	ADXPeriod  int `json:"adx_period"`
	StochK     int `json:"stoch_k"`
	StochD     int `json:"stoch_d"`

	// Key levels
	FibLookback  int     `json:"fib_lookback"`
	SRLookback   int     `json:"sr_lookback"`
	SRProximityPct float64 `json:"sr_proximity_pct"`

	// Regime classification. Volatility thresholds are annualized decimal
	// fractions, the same unit the classifier computes.
	RegimeLookback     int     `json:"regime_lookback"`
	SMAPeriod          int     `json:"sma_period"`
	SlopeWindow        int     `json:"slope_window"`
	VolLowThreshold    float64 `json:"vol_low_threshold"`
	VolHighThreshold   float64 `json:"vol_high_threshold"`
	ADXStrongThreshold float64 `json:"adx_strong_threshold"`
	ADXWeakThreshold   float64 `json:"adx_weak_threshold"`
	TrendThreshold     float64 `json:"trend_threshold"`

	// Risk
	VaRConfidence      float64 `json:"var_confidence"`
	CVaRConfidence     float64 `json:"cvar_confidence"`
	VaRHorizonDays     int     `json:"var_horizon_days"`
	TradingDaysPerYear int     `json:"trading_days_per_year"`
	ReturnKind         string  `json:"return_kind"`

	// Simulation
	MinBars           int     `json:"min_bars"`
	StartingCash      float64 `json:"starting_cash"`
	FractionalShares  bool    `json:"fractional_shares"`
	CommissionRate    float64 `json:"commission_rate"`
	SlippageRate      float64 `json:"slippage_rate"`
	MinPositionWeight float64 `json:"min_position_weight"`
	MaxPositionWeight float64 `json:"max_position_weight"`
	MinCashBuffer     float64 `json:"min_cash_buffer"`
}

// Validate checks threshold ordering, units and parameter sanity. Violations
// surface as a ConfigurationError at startup, not a silent misclassification
// later.
func (c AnalysisConfig) Validate() error {
	if c.VolLowThreshold >= c.VolHighThreshold {
		return &ConfigurationError{Field: "vol_low_threshold", Reason: "must be below vol_high_threshold"}
	}
	if c.VolLowThreshold <= volSanityFloor {
		return &ConfigurationError{Field: "vol_low_threshold", Reason: "below sanity floor, expected an annualized decimal fraction"}
	}
	if c.VolHighThreshold <= volSanityFloor {
		return &ConfigurationError{Field: "vol_high_threshold", Reason: "below sanity floor, expected an annualized decimal fraction"}
	}
	if c.ADXWeakThreshold >= c.ADXStrongThreshold {
		return &ConfigurationError{Field: "adx_weak_threshold", Reason: "must be below adx_strong_threshold"}
	}
	if c.TrendThreshold <= 0 {
		return &ConfigurationError{Field: "trend_threshold", Reason: "must be positive"}
	}
	for field, period := range map[string]int{
		"rsi_period":      c.RSIPeriod,
		"macd_fast":       c.MACDFast,
		"macd_slow":       c.MACDSlow,
		"macd_signal":     c.MACDSignal,
		"adx_period":      c.ADXPeriod,
		"stoch_k":         c.StochK,
		"stoch_d":         c.StochD,
		"fib_lookback":    c.FibLookback,
		"sr_lookback":     c.SRLookback,
		"regime_lookback": c.RegimeLookback,
		"sma_period":      c.SMAPeriod,
		"slope_window":    c.SlopeWindow,
		"min_bars":        c.MinBars,
	} {
		if period <= 0 {
			return &ConfigurationError{Field: field, Reason: "must be positive"}
		}
	}
	if c.MACDFast >= c.MACDSlow {
		return &ConfigurationError{Field: "macd_fast", Reason: "must be below macd_slow"}
	}
	if c.VaRConfidence <= 0.5 || c.VaRConfidence >= 1 {
		return &ConfigurationError{Field: "var_confidence", Reason: "must be in (0.5, 1)"}
	}
	if c.CVaRConfidence <= 0.5 || c.CVaRConfidence >= 1 {
		return &ConfigurationError{Field: "cvar_confidence", Reason: "must be in (0.5, 1)"}
	}
	if c.VaRHorizonDays <= 0 {
		return &ConfigurationError{Field: "var_horizon_days", Reason: "must be positive"}
	}
	if c.TradingDaysPerYear <= 0 {
		return &ConfigurationError{Field: "trading_days_per_year", Reason: "must be positive"}
	}
	if c.ReturnKind != LogReturns && c.ReturnKind != SimpleReturns {
		return &ConfigurationError{Field: "return_kind", Reason: "must be log or simple"}
	}
	if c.SRProximityPct <= 0 {
		return &ConfigurationError{Field: "sr_proximity_pct", Reason: "must be positive"}
	}
	if c.StartingCash <= 0 {
		return &ConfigurationError{Field: "starting_cash", Reason: "must be positive"}
	}
	if c.CommissionRate < 0 || c.SlippageRate < 0 {
		return &ConfigurationError{Field: "commission_rate", Reason: "rates must not be negative"}
	}
	if c.MinPositionWeight < 0 || c.MinPositionWeight > c.MaxPositionWeight {
		return &ConfigurationError{Field: "min_position_weight", Reason: "must be within [0, max_position_weight]"}
	}
	if c.MaxPositionWeight > 1 {
		return &ConfigurationError{Field: "max_position_weight", Reason: "must not exceed 1"}
	}
	if c.MinCashBuffer < 0 || c.MinCashBuffer >= 1 {
		return &ConfigurationError{Field: "min_cash_buffer", Reason: "must be in [0, 1)"}
	}
	return nil
}

// EquityProfile returns the default configuration set for daily equity bars.
func EquityProfile(symbol string) AnalysisConfig {
	return AnalysisConfig{
		Symbol:             symbol,
		RSIPeriod:          14,
		MACDFast:           12,
		MACDSlow:           26,
		MACDSignal:         9,
		ADXPeriod:          14,
		StochK:             14,
		StochD:             3,
		FibLookback:        90,
		SRLookback:         60,
		SRProximityPct:     0.1,
		RegimeLookback:     60,
		SMAPeriod:          20,
		SlopeWindow:        5,
		VolLowThreshold:    0.12,
		VolHighThreshold:   0.25,
		ADXStrongThreshold: 25,
		ADXWeakThreshold:   20,
		TrendThreshold:     0.01,
		VaRConfidence:      0.95,
		CVaRConfidence:     0.95,
		VaRHorizonDays:     1,
		TradingDaysPerYear: 252,
		ReturnKind:         LogReturns,
		MinBars:            60,
		StartingCash:       100000,
		FractionalShares:   true,
		CommissionRate:     0.001,
		SlippageRate:       0.0005,
		MinPositionWeight:  0,
		MaxPositionWeight:  1,
		MinCashBuffer:      0.02,
	}
}

// CryptoProfile returns the default configuration set for always-open crypto
// markets, with wider volatility bands and a 365 day year.
func CryptoProfile(symbol string) AnalysisConfig {
	c := EquityProfile(symbol)
	c.VolLowThreshold = 0.45
	c.VolHighThreshold = 0.9
	c.TradingDaysPerYear = 365
	return c
}

// LoadAnalysisConfig loads and validates a config from a JSON file.
func LoadAnalysisConfig(fileName string) (AnalysisConfig, error) {
	var config AnalysisConfig
	file, err := ioutil.ReadFile(fileName)
	if err != nil {
		return config, err
	}
	if err := json.Unmarshal(file, &config); err != nil {
		return config, err
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}
