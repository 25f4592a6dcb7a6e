package models

// TradeStats summarizes the trade log of a completed backtest.
type TradeStats struct {
	TotalTrades        int
	RoundTrips         int
	WinningTrips       int
	LosingTrips        int
	WinRate            float64
	AverageHoldingBars float64
	AverageWin         float64
	AverageLoss        float64
	ProfitFactor       float64
	TotalCommission    float64
	TotalSlippage      float64
	PercentDaysProfitable float64
}
