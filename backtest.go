package sutra

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/sutralabs/sutra/logger"
	"github.com/sutralabs/sutra/models"
	"github.com/sutralabs/sutra/utils"
)

// Run lifecycle states.
const (
	StatusInitialized = "INITIALIZED"
	StatusRunning     = "RUNNING"
	StatusCompleted   = "COMPLETED"
	StatusFailed      = "FAILED"
)

// Tolerance for the per-bar accounting cross-check, scaled by equity.
const equityEpsilon = 1e-6

// Rebalances below this fraction of equity are noise and not traded.
const minRebalanceFraction = 1e-6

// Backtest owns one simulation run: portfolio, trade log and equity curve
// accumulate monotonically over the bar sequence and are read-only once the
// run completes or fails.
type Backtest struct {
	ID       string
	Symbol   string
	Config   models.AnalysisConfig
	Strategy Strategy
	Status   string

	Portfolio   models.PortfolioState
	Trades      []models.Trade
	EquityCurve []models.EquityPoint
	FailedAtBar int

	sizer Sizer
	cache *IndicatorCache
}

// NewBacktest validates the configuration eagerly and prepares an
// INITIALIZED run holding only starting cash.
func NewBacktest(config models.AnalysisConfig, strategy Strategy) (*Backtest, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if strategy == nil {
		return nil, fmt.Errorf("a backtest requires a strategy")
	}
	return &Backtest{
		ID:          uuid.New().String(),
		Symbol:      config.Symbol,
		Config:      config,
		Strategy:    strategy,
		Status:      StatusInitialized,
		Portfolio:   models.NewPortfolioState(config.StartingCash),
		FailedAtBar: -1,
		sizer:       NewSizer(config),
		cache:       NewIndicatorCache(),
	}, nil
}

// Run walks the bars in strictly increasing date order, querying the
// strategy per bar with a window that never looks past the current bar,
// realizing trades through the sizer and marking to market every step. A
// mid-run failure transitions to FAILED and preserves the partial curve and
// trade log up to the failing bar.
func (bt *Backtest) Run(bars []*models.Bar) (*models.BacktestResult, error) {
	if bt.Status != StatusInitialized {
		return nil, fmt.Errorf("backtest %v already ran (status %v)", bt.ID, bt.Status)
	}
	if len(bars) < bt.Config.MinBars {
		err := &models.InsufficientDataError{Needed: bt.Config.MinBars, Available: len(bars), What: "backtest"}
		return bt.fail(0, err), err
	}

	start := time.Now()
	bt.Status = StatusRunning
	logger.Infof("Running %v bars for %v with strategy %v\n", len(bars), bt.Symbol, bt.Strategy.Name())

	ohlcv := utils.GetOHLCV(bars)
	lastPrice := 0.0
	var lastTimestamp int64

	for i, bar := range bars {
		if i > 0 && bar.Timestamp <= lastTimestamp {
			err := &models.DataIntegrityError{Index: i, Reason: "timestamps must be strictly increasing"}
			return bt.fail(i, err), err
		}
		lastTimestamp = bar.Timestamp
		price := bar.Price

		held := bt.Portfolio.Quantity(bt.Symbol)
		tracked := bt.Portfolio.Equity + held*(price-lastPrice)
		if i == 0 {
			tracked = bt.Portfolio.Equity
		}
		lastPrice = price

		ctx := WindowContext{
			Symbol:     bt.Symbol,
			Config:     bt.Config,
			OHLCV:      ohlcv.Slice(i + 1),
			Index:      i,
			Price:      price,
			Cash:       bt.Portfolio.Cash,
			Equity:     tracked,
			Quantity:   held,
			Indicators: bt.cache,
		}
		allocation, err := bt.Strategy.GenerateSignal(ctx)
		if err != nil {
			return bt.fail(i, err), err
		}
		allocation = utils.ConstrainFloat(allocation, bt.Config.MinPositionWeight, bt.Config.MaxPositionWeight)
		if max := 1 - bt.Config.MinCashBuffer; allocation > max {
			allocation = max
		}

		delta := allocation*tracked - held*price
		if math.Abs(delta) > tracked*minRebalanceFraction {
			var fees float64
			if delta > 0 {
				fees, err = bt.buy(bar, delta, tracked)
			} else {
				fees, err = bt.sell(bar, -delta)
			}
			if err != nil {
				return bt.fail(i, err), err
			}
			tracked -= fees
		}

		if bt.Portfolio.Cash < -equityEpsilon {
			err := &models.SizingError{Quantity: bt.Portfolio.Quantity(bt.Symbol), Reason: "trade drove cash negative"}
			return bt.fail(i, err), err
		}

		computed := bt.Portfolio.Cash + bt.Portfolio.Quantity(bt.Symbol)*price
		if math.Abs(computed-tracked) > equityEpsilon*math.Max(1, math.Abs(computed)) {
			err := &models.AccountingImbalanceError{BarIndex: i, Tracked: tracked, Computed: computed}
			return bt.fail(i, err), err
		}
		bt.Portfolio.Equity = computed
		bt.EquityCurve = append(bt.EquityCurve, models.EquityPoint{
			Timestamp: bar.Timestamp,
			Equity:    computed,
			Cash:      bt.Portfolio.Cash,
			Quantity:  bt.Portfolio.Quantity(bt.Symbol),
			Price:     price,
		})
	}

	bt.Status = StatusCompleted
	result := bt.buildResult()
	logger.Infof("Execution Speed: %v\n", time.Since(start))
	return result, nil
}

// buy sizes a purchase for up to targetValue of the instrument, capped by
// available cash net of the cash buffer and the transaction costs the order
// will incur. Returns the fees charged.
func (bt *Backtest) buy(bar *models.Bar, targetValue float64, equity float64) (float64, error) {
	available := bt.Portfolio.Cash - bt.Config.MinCashBuffer*equity
	targetCash := math.Min(targetValue, available)
	targetCash /= 1 + bt.sizer.CommissionRate + bt.sizer.SlippageRate
	if targetCash <= 0 {
		return 0, nil
	}
	quantity, _, err := bt.sizer.Size(targetCash, bar.Price)
	if err != nil {
		return 0, err
	}
	if quantity <= 0 {
		return 0, nil
	}
	if err := bt.sizer.ValidateQuantity(quantity); err != nil {
		return 0, err
	}
	commission, slippage := bt.sizer.TransactionCost(quantity, bar.Price)
	cost := quantity * bar.Price

	bt.Portfolio.Cash -= cost + commission + slippage
	position := bt.Portfolio.Positions[bt.Symbol]
	newQuantity := position.Quantity + quantity
	position.Symbol = bt.Symbol
	position.AverageCost = (position.Quantity*position.AverageCost + cost) / newQuantity
	position.Quantity = newQuantity
	bt.Portfolio.Positions[bt.Symbol] = position

	bt.Trades = append(bt.Trades, models.Trade{
		ID:         uuid.New().String(),
		Timestamp:  bar.Timestamp,
		Symbol:     bt.Symbol,
		Side:       models.Buy,
		Quantity:   quantity,
		Price:      bar.Price,
		Commission: commission,
		Slippage:   slippage,
	})
	return commission + slippage, nil
}

// sell sizes a disposal of up to sellValue of the position. Returns the fees
// charged.
func (bt *Backtest) sell(bar *models.Bar, sellValue float64) (float64, error) {
	held := bt.Portfolio.Quantity(bt.Symbol)
	if held <= 0 {
		return 0, nil
	}
	quantity, _, err := bt.sizer.Size(sellValue, bar.Price)
	if err != nil {
		return 0, err
	}
	// A full exit must not leave a dust share behind to rounding.
	if quantity > held || math.Abs(sellValue-held*bar.Price) <= equityEpsilon*math.Max(1, held*bar.Price) {
		quantity = held
	}
	if quantity <= 0 {
		return 0, nil
	}
	if err := bt.sizer.ValidateQuantity(quantity); err != nil {
		return 0, err
	}
	commission, slippage := bt.sizer.TransactionCost(quantity, bar.Price)

	bt.Portfolio.Cash += quantity*bar.Price - commission - slippage
	position := bt.Portfolio.Positions[bt.Symbol]
	position.Quantity -= quantity
	if position.Quantity <= equityEpsilon {
		delete(bt.Portfolio.Positions, bt.Symbol)
	} else {
		bt.Portfolio.Positions[bt.Symbol] = position
	}

	bt.Trades = append(bt.Trades, models.Trade{
		ID:         uuid.New().String(),
		Timestamp:  bar.Timestamp,
		Symbol:     bt.Symbol,
		Side:       models.Sell,
		Quantity:   quantity,
		Price:      bar.Price,
		Commission: commission,
		Slippage:   slippage,
	})
	return commission + slippage, nil
}

func (bt *Backtest) fail(barIndex int, cause error) *models.BacktestResult {
	bt.Status = StatusFailed
	bt.FailedAtBar = barIndex
	result := bt.buildResult()
	result.FailureMsg = cause.Error()
	logger.Errorf("Backtest %v failed at bar %v: %v\n", bt.ID, barIndex, cause)
	return result
}

func (bt *Backtest) buildResult() *models.BacktestResult {
	result := &models.BacktestResult{
		ID:           bt.ID,
		Symbol:       bt.Symbol,
		Strategy:     bt.Strategy.Name(),
		Status:       bt.Status,
		StartingCash: bt.Config.StartingCash,
		EquityCurve:  bt.EquityCurve,
		Trades:       bt.Trades,
		FailedAtBar:  bt.FailedAtBar,
	}
	if len(bt.EquityCurve) > 0 {
		result.EndingEquity = bt.EquityCurve[len(bt.EquityCurve)-1].Equity
		result.ReturnPct = utils.CalculateDifference(result.EndingEquity, result.StartingCash) * 100

		equities := make([]float64, len(bt.EquityCurve))
		for i, point := range bt.EquityCurve {
			equities[i] = point.Equity
		}
		returns, err := Returns(equities, bt.Config.ReturnKind)
		if err == nil {
			result.Summary = ComputeRisk(CleanReturns(returns), bt.Config)
		}
	}
	result.Stats = ComputeTradeStats(bt.Trades, bt.EquityCurve)
	return result
}
