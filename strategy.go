package sutra

import (
	"github.com/sutralabs/sutra/models"
)

// WindowContext is the view of the world a strategy sees on one bar: the
// bars up to and including the current one, plus the run's portfolio state.
// Nothing beyond the current bar is reachable from here.
type WindowContext struct {
	Symbol     string
	Config     models.AnalysisConfig
	OHLCV      models.OHLCV
	Index      int
	Price      float64
	Cash       float64
	Equity     float64
	Quantity   float64
	Indicators *IndicatorCache
}

// CurrentAllocation returns the fraction of equity currently held in the
// position.
func (ctx WindowContext) CurrentAllocation() float64 {
	if ctx.Equity <= 0 {
		return 0
	}
	return ctx.Quantity * ctx.Price / ctx.Equity
}

// Strategy produces a target allocation (fraction of equity to hold in the
// instrument) for each bar. Concrete strategies are selected by the
// orchestrator; the simulator only ever talks to this interface.
type Strategy interface {
	Name() string
	GenerateSignal(ctx WindowContext) (float64, error)
}

// HoldCashStrategy never takes a position.
type HoldCashStrategy struct{}

func (HoldCashStrategy) Name() string { return "hold_cash" }

func (HoldCashStrategy) GenerateSignal(WindowContext) (float64, error) {
	return 0, nil
}

// BuyAndHoldStrategy targets a full position on every bar.
type BuyAndHoldStrategy struct{}

func (BuyAndHoldStrategy) Name() string { return "buy_and_hold" }

func (BuyAndHoldStrategy) GenerateSignal(ctx WindowContext) (float64, error) {
	return ctx.Config.MaxPositionWeight, nil
}

// SMACrossStrategy is long while the fast SMA sits above the slow one.
type SMACrossStrategy struct {
	Fast int
	Slow int
}

func (SMACrossStrategy) Name() string { return "sma_cross" }

func (s SMACrossStrategy) GenerateSignal(ctx WindowContext) (float64, error) {
	fast, err := Sma(ctx.OHLCV.Price, s.Fast)
	if err != nil {
		return holdCurrent(ctx, err)
	}
	slow, err := Sma(ctx.OHLCV.Price, s.Slow)
	if err != nil {
		return holdCurrent(ctx, err)
	}
	last := ctx.OHLCV.Len() - 1
	if fast[last] > slow[last] {
		return ctx.Config.MaxPositionWeight, nil
	}
	return 0, nil
}

// RegimeStrategy allocates by the classified market state: fully invested in
// an uptrend, half in a range, flat in a downtrend or a volatile market, and
// unchanged while the regime is transitioning.
type RegimeStrategy struct{}

func (RegimeStrategy) Name() string { return "regime" }

func (RegimeStrategy) GenerateSignal(ctx WindowContext) (float64, error) {
	regime, err := ClassifyRegime(ctx.OHLCV, ctx.Config)
	if err != nil {
		return holdCurrent(ctx, err)
	}
	switch regime.Type {
	case models.TrendingUp:
		return ctx.Config.MaxPositionWeight, nil
	case models.Ranging:
		return ctx.Config.MaxPositionWeight / 2, nil
	case models.Transitioning:
		return ctx.CurrentAllocation(), nil
	default:
		return 0, nil
	}
}

// holdCurrent keeps the current allocation while an indicator window has not
// warmed up yet; any other failure is surfaced.
func holdCurrent(ctx WindowContext, err error) (float64, error) {
	if _, ok := err.(*models.InsufficientDataError); ok {
		return ctx.CurrentAllocation(), nil
	}
	return 0, err
}
