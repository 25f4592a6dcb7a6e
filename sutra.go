// Package sutra is a validated analytics and backtest-simulation core for
// daily price bars: technical indicators, key levels, market-regime
// classification, risk statistics and a sequential portfolio simulator.
package sutra

import (
	"github.com/sutralabs/sutra/models"
	"github.com/sutralabs/sutra/utils"
)

// Analysis bundles the full analytics chain for one evaluation window.
type Analysis struct {
	Indicators        models.IndicatorSet
	Fibonacci         models.FibonacciLevels
	SupportResistance models.SupportResistance
	Regime            models.RegimeClassification
	Risk              models.RiskReport
}

// Analyze runs the analytics chain bottom-up over normalized bars: returns
// and indicators first, then key levels, then the windowed regime and risk
// views. The configuration is validated before any computation proceeds.
func Analyze(bars []*models.Bar, config models.AnalysisConfig) (*Analysis, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if len(bars) < config.MinBars {
		return nil, &models.InsufficientDataError{Needed: config.MinBars, Available: len(bars), What: "analysis"}
	}
	ohlcv := utils.GetOHLCV(bars)

	var analysis Analysis
	var err error
	if analysis.Indicators, err = Indicators(ohlcv, config); err != nil {
		return nil, err
	}
	if analysis.Fibonacci, err = Fibonacci(ohlcv, config.FibLookback); err != nil {
		return nil, err
	}
	if analysis.SupportResistance, err = SupportResistance(ohlcv, config.SRLookback, config.SRProximityPct); err != nil {
		return nil, err
	}
	if analysis.Regime, err = ClassifyRegime(ohlcv, config); err != nil {
		return nil, err
	}

	returns, err := Returns(ohlcv.Price, config.ReturnKind)
	if err != nil {
		return nil, err
	}
	analysis.Risk = ComputeRisk(CleanReturns(returns), config)
	return &analysis, nil
}
