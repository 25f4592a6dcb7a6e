package sutra

import (
	"math"
	"os"
	"time"

	"github.com/fatih/structs"
	"github.com/gocarina/gocsv"
	client "github.com/influxdata/influxdb1-client/v2"

	"github.com/sutralabs/sutra/logger"
	"github.com/sutralabs/sutra/models"
	"github.com/sutralabs/sutra/utils"
)

// ComputeTradeStats summarizes a run's trade log. A round trip is the span
// from the first entry of a position until it returns to flat; its holding
// period is measured in bars of the equity curve.
func ComputeTradeStats(trades []models.Trade, curve []models.EquityPoint) models.TradeStats {
	var stats models.TradeStats
	stats.TotalTrades = len(trades)

	barIndex := make(map[int64]int, len(curve))
	for i, point := range curve {
		barIndex[point.Timestamp] = i
	}

	var openQuantity, avgCost, tripPnL float64
	var entryTimestamp int64
	var holdingBars []float64
	var wins, losses []float64

	for _, trade := range trades {
		stats.TotalCommission += trade.Commission
		stats.TotalSlippage += trade.Slippage
		fees := trade.Commission + trade.Slippage

		if trade.Side == models.Buy {
			if openQuantity == 0 {
				entryTimestamp = trade.Timestamp
				tripPnL = 0
			}
			newQuantity := openQuantity + trade.Quantity
			avgCost = (openQuantity*avgCost + trade.Quantity*trade.Price) / newQuantity
			openQuantity = newQuantity
			tripPnL -= fees
		} else {
			tripPnL += trade.Quantity*(trade.Price-avgCost) - fees
			openQuantity -= trade.Quantity
			if openQuantity <= equityEpsilon {
				openQuantity = 0
				stats.RoundTrips++
				if tripPnL > 0 {
					wins = append(wins, tripPnL)
				} else {
					losses = append(losses, tripPnL)
				}
				if entry, ok := barIndex[entryTimestamp]; ok {
					if exit, ok := barIndex[trade.Timestamp]; ok {
						holdingBars = append(holdingBars, float64(exit-entry))
					}
				}
			}
		}
	}

	stats.WinningTrips = len(wins)
	stats.LosingTrips = len(losses)
	if stats.RoundTrips > 0 {
		stats.WinRate = float64(stats.WinningTrips) / float64(stats.RoundTrips)
	}
	if len(holdingBars) > 0 {
		stats.AverageHoldingBars = utils.SumArr(holdingBars) / float64(len(holdingBars))
	}
	if len(wins) > 0 {
		stats.AverageWin = utils.SumArr(wins) / float64(len(wins))
	}
	if len(losses) > 0 {
		stats.AverageLoss = utils.SumArr(losses) / float64(len(losses))
	}
	grossLoss := math.Abs(utils.SumArr(losses))
	if grossLoss > 0 {
		stats.ProfitFactor = utils.SumArr(wins) / grossLoss
	}

	if len(curve) > 0 {
		profitable := 0.0
		for _, point := range curve {
			if point.Equity > curve[0].Equity {
				profitable++
			}
		}
		stats.PercentDaysProfitable = profitable / float64(len(curve))
	}
	return stats
}

// LogResult prints the headline metrics and trade stats of a finished run.
func LogResult(result *models.BacktestResult) {
	logger.Infof("Balance %0.4f \n Return %0.2f%% \n Max Drawdown %0.4f \n Sharpe %0.3f \n Sortino %0.3f \n Calmar %0.3f \n Trades %d \n Win Rate %0.4f \n",
		result.EndingEquity,
		result.ReturnPct,
		result.Summary.MaxDrawdown,
		result.Summary.Sharpe,
		result.Summary.Sortino,
		result.Summary.Calmar,
		result.Stats.TotalTrades,
		result.Stats.WinRate,
	)
	logger.Infof("%s", utils.CreateKeyValuePairs(structs.Map(result.Stats)))
}

// WriteEquityCSV saves the equity curve of a run, replacing any previous
// export at that path.
func WriteEquityCSV(result *models.BacktestResult, fileName string) error {
	os.Remove(fileName)
	file, err := os.OpenFile(fileName, os.O_RDWR|os.O_CREATE, os.ModePerm)
	if err != nil {
		return err
	}
	defer file.Close()
	return gocsv.MarshalFile(&result.EquityCurve, file)
}

// LogCloudResult writes a result point to the backtest InfluxDB when the
// `SUTRA_BACKTEST_DB_URL` env variable is set. Credentials come from
// `SUTRA_BACKTEST_DB_USER` and `SUTRA_BACKTEST_DB_PASSWORD`.
func LogCloudResult(result *models.BacktestResult) error {
	influxURL := os.Getenv("SUTRA_BACKTEST_DB_URL")
	if influxURL == "" {
		return nil
	}

	influx, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:     influxURL,
		Username: os.Getenv("SUTRA_BACKTEST_DB_USER"),
		Password: os.Getenv("SUTRA_BACKTEST_DB_PASSWORD"),
		Timeout:  time.Millisecond * 1000 * 10,
	})
	if err != nil {
		return err
	}
	defer influx.Close()

	bp, _ := client.NewBatchPoints(client.BatchPointsConfig{
		Database:  "backtests",
		Precision: "us",
	})
	tags := map[string]string{
		"symbol":      result.Symbol,
		"strategy":    result.Strategy,
		"backtest_id": result.ID,
	}
	fields := map[string]interface{}{
		"balance":    result.EndingEquity,
		"return_pct": result.ReturnPct,
		"sharpe":     result.Summary.Sharpe,
		"sortino":    result.Summary.Sortino,
		"max_dd":     result.Summary.MaxDrawdown,
		"trades":     result.Stats.TotalTrades,
	}
	pt, err := client.NewPoint("result", tags, fields, time.Now())
	if err != nil {
		return err
	}
	bp.AddPoint(pt)
	if err := client.Client.Write(influx, bp); err != nil {
		return err
	}
	logger.Infof("Logged backtest %v to %v\n", result.ID, influxURL)
	return nil
}
