package sutra

import (
	"math"
	"testing"

	"github.com/sutralabs/sutra/models"
)

func TestBacktestFlatMarketHoldCash(t *testing.T) {
	config := testConfig()
	bt, err := NewBacktest(config, HoldCashStrategy{})
	if err != nil {
		t.Fatal(err)
	}
	result, err := bt.Run(flatBars(252, 100))
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != StatusCompleted {
		t.Fatalf("status %v, want %v", result.Status, StatusCompleted)
	}
	if len(result.Trades) != 0 {
		t.Fatalf("hold-cash run made %d trades", len(result.Trades))
	}
	if len(result.EquityCurve) != 252 {
		t.Fatalf("equity curve has %d points, want 252", len(result.EquityCurve))
	}
	for i, point := range result.EquityCurve {
		if point.Equity != config.StartingCash {
			t.Fatalf("equity at %d = %v, want %v", i, point.Equity, config.StartingCash)
		}
	}
	if result.ReturnPct != 0 {
		t.Fatalf("return %v%%, want 0", result.ReturnPct)
	}
	if result.Summary.VolAnnualized != 0 || result.Summary.Sharpe != 0 || result.Summary.MaxDrawdown != 0 {
		t.Fatalf("flat run summary not zeroed: %+v", result.Summary)
	}
	if result.Summary.VaR != 0 || result.Summary.CVaR != 0 {
		t.Fatalf("flat run VaR/CVaR = %v/%v, want 0", result.Summary.VaR, result.Summary.CVaR)
	}
}

func TestBacktestAccountingInvariant(t *testing.T) {
	config := testConfig()
	bt, err := NewBacktest(config, BuyAndHoldStrategy{})
	if err != nil {
		t.Fatal(err)
	}
	result, err := bt.Run(barsFromPrices(trendPrices(120, 100, 0.01)))
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != StatusCompleted {
		t.Fatalf("status %v, want %v", result.Status, StatusCompleted)
	}
	if len(result.Trades) == 0 {
		t.Fatal("buy-and-hold run made no trades")
	}
	for i, point := range result.EquityCurve {
		computed := point.Cash + point.Quantity*point.Price
		if math.Abs(point.Equity-computed) > equityEpsilon*math.Max(1, computed) {
			t.Fatalf("equity at %d = %v, cash+position = %v", i, point.Equity, computed)
		}
		if point.Cash < -equityEpsilon {
			t.Fatalf("cash at %d went negative: %v", i, point.Cash)
		}
	}
	if result.EndingEquity <= config.StartingCash {
		t.Fatalf("long run on a rising market ended at %v from %v", result.EndingEquity, config.StartingCash)
	}
}

func TestBacktestRespectsCashBuffer(t *testing.T) {
	config := testConfig()
	bt, err := NewBacktest(config, BuyAndHoldStrategy{})
	if err != nil {
		t.Fatal(err)
	}
	result, err := bt.Run(barsFromPrices(trendPrices(90, 100, 0.005)))
	if err != nil {
		t.Fatal(err)
	}
	for i, point := range result.EquityCurve {
		if point.Cash < config.MinCashBuffer*point.Equity-equityEpsilon*point.Equity {
			t.Fatalf("cash buffer violated at %d: cash %v, floor %v", i, point.Cash, config.MinCashBuffer*point.Equity)
		}
	}
}

func TestBacktestWholeShareQuantities(t *testing.T) {
	config := testConfig()
	config.FractionalShares = false
	bt, err := NewBacktest(config, BuyAndHoldStrategy{})
	if err != nil {
		t.Fatal(err)
	}
	result, err := bt.Run(barsFromPrices(trendPrices(90, 100, 0.01)))
	if err != nil {
		t.Fatal(err)
	}
	for _, trade := range result.Trades {
		if trade.Quantity != math.Floor(trade.Quantity) {
			t.Fatalf("whole-share run produced quantity %v", trade.Quantity)
		}
	}
}

// windowProbe fails the run if the simulator ever exposes bars beyond the one
// being processed.
type windowProbe struct {
	t *testing.T
}

func (windowProbe) Name() string { return "window_probe" }

func (p windowProbe) GenerateSignal(ctx WindowContext) (float64, error) {
	if ctx.OHLCV.Len() != ctx.Index+1 {
		p.t.Fatalf("bar %d sees %d bars", ctx.Index, ctx.OHLCV.Len())
	}
	if ctx.OHLCV.Price[ctx.OHLCV.Len()-1] != ctx.Price {
		p.t.Fatalf("bar %d window does not end at the current price", ctx.Index)
	}
	return 0, nil
}

func TestBacktestNoLookahead(t *testing.T) {
	config := testConfig()
	bt, err := NewBacktest(config, windowProbe{t})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bt.Run(barsFromPrices(oscillatingPrices(90, 100, 0.01))); err != nil {
		t.Fatal(err)
	}
}

func TestBacktestFailsOnUnorderedBars(t *testing.T) {
	config := testConfig()
	bt, err := NewBacktest(config, HoldCashStrategy{})
	if err != nil {
		t.Fatal(err)
	}
	bars := flatBars(80, 100)
	bars[40].Timestamp = bars[39].Timestamp

	result, err := bt.Run(bars)
	if _, ok := err.(*models.DataIntegrityError); !ok {
		t.Fatalf("expected DataIntegrityError, got %v", err)
	}
	if result.Status != StatusFailed {
		t.Fatalf("status %v, want %v", result.Status, StatusFailed)
	}
	if result.FailedAtBar != 40 {
		t.Fatalf("failed at bar %d, want 40", result.FailedAtBar)
	}
	if len(result.EquityCurve) != 40 {
		t.Fatalf("partial curve has %d points, want 40", len(result.EquityCurve))
	}
	if result.FailureMsg == "" {
		t.Fatal("failed result must carry the cause")
	}
}

func TestBacktestFailsOnTooFewBars(t *testing.T) {
	config := testConfig()
	bt, err := NewBacktest(config, HoldCashStrategy{})
	if err != nil {
		t.Fatal(err)
	}
	result, err := bt.Run(flatBars(10, 100))
	if _, ok := err.(*models.InsufficientDataError); !ok {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if result.Status != StatusFailed {
		t.Fatalf("status %v, want %v", result.Status, StatusFailed)
	}
}

func TestBacktestRunsOnce(t *testing.T) {
	config := testConfig()
	bt, err := NewBacktest(config, HoldCashStrategy{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bt.Run(flatBars(60, 100)); err != nil {
		t.Fatal(err)
	}
	if _, err := bt.Run(flatBars(60, 100)); err == nil {
		t.Fatal("a completed backtest must refuse to run again")
	}
}

func TestNewBacktestValidatesConfig(t *testing.T) {
	config := testConfig()
	config.VolLowThreshold = config.VolHighThreshold
	_, err := NewBacktest(config, HoldCashStrategy{})
	if _, ok := err.(*models.ConfigurationError); !ok {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestSMACrossHoldsThroughWarmup(t *testing.T) {
	config := testConfig()
	bt, err := NewBacktest(config, SMACrossStrategy{Fast: 10, Slow: 30})
	if err != nil {
		t.Fatal(err)
	}
	result, err := bt.Run(barsFromPrices(trendPrices(120, 100, 0.01)))
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != StatusCompleted {
		t.Fatalf("status %v, want %v", result.Status, StatusCompleted)
	}
	if len(result.Trades) == 0 {
		t.Fatal("rising market must cross the fast SMA above the slow one")
	}
}

func TestRegimeStrategyCompletes(t *testing.T) {
	config := testConfig()
	bt, err := NewBacktest(config, RegimeStrategy{})
	if err != nil {
		t.Fatal(err)
	}
	result, err := bt.Run(barsFromPrices(trendPrices(150, 100, 0.008)))
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != StatusCompleted {
		t.Fatalf("status %v, want %v", result.Status, StatusCompleted)
	}
}
