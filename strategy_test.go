package sutra

import (
	"testing"

	"github.com/sutralabs/sutra/utils"
)

func TestCurrentAllocation(t *testing.T) {
	ctx := WindowContext{Price: 100, Quantity: 5, Equity: 1000}
	if got := ctx.CurrentAllocation(); got != 0.5 {
		t.Fatalf("allocation %v, want 0.5", got)
	}
	ctx.Equity = 0
	if got := ctx.CurrentAllocation(); got != 0 {
		t.Fatalf("allocation %v with zero equity, want 0", got)
	}
}

func TestSMACrossHoldsCurrentBeforeWarmup(t *testing.T) {
	config := testConfig()
	ohlcv := utils.GetOHLCV(flatBars(5, 100))
	ctx := WindowContext{
		Symbol: "TEST", Config: config, OHLCV: ohlcv, Index: 4,
		Price: 100, Equity: 1000, Quantity: 3,
	}
	allocation, err := SMACrossStrategy{Fast: 10, Slow: 30}.GenerateSignal(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if allocation != ctx.CurrentAllocation() {
		t.Fatalf("allocation %v before warmup, want current %v", allocation, ctx.CurrentAllocation())
	}
}

func TestRegimeStrategyAllocations(t *testing.T) {
	config := testConfig()

	uptrend := WindowContext{
		Config: config,
		OHLCV:  utils.GetOHLCV(barsFromPrices(trendPrices(60, 100, 0.01))),
	}
	allocation, err := RegimeStrategy{}.GenerateSignal(uptrend)
	if err != nil {
		t.Fatal(err)
	}
	if allocation != config.MaxPositionWeight {
		t.Fatalf("uptrend allocation %v, want %v", allocation, config.MaxPositionWeight)
	}

	ranging := WindowContext{
		Config: config,
		OHLCV:  utils.GetOHLCV(flatBars(60, 100)),
	}
	allocation, err = RegimeStrategy{}.GenerateSignal(ranging)
	if err != nil {
		t.Fatal(err)
	}
	if allocation != config.MaxPositionWeight/2 {
		t.Fatalf("ranging allocation %v, want %v", allocation, config.MaxPositionWeight/2)
	}

	downtrend := WindowContext{
		Config: config,
		OHLCV:  utils.GetOHLCV(barsFromPrices(trendPrices(60, 100, -0.01))),
	}
	allocation, err = RegimeStrategy{}.GenerateSignal(downtrend)
	if err != nil {
		t.Fatal(err)
	}
	if allocation != 0 {
		t.Fatalf("downtrend allocation %v, want 0", allocation)
	}
}

func TestBuyAndHoldTargetsMaxWeight(t *testing.T) {
	config := testConfig()
	allocation, err := BuyAndHoldStrategy{}.GenerateSignal(WindowContext{Config: config})
	if err != nil {
		t.Fatal(err)
	}
	if allocation != config.MaxPositionWeight {
		t.Fatalf("allocation %v, want %v", allocation, config.MaxPositionWeight)
	}
}
