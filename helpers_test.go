package sutra

import (
	"math"

	"github.com/sutralabs/sutra/models"
)

const dayMillis = int64(24 * 60 * 60 * 1000)

// barsFromPrices builds daily bars with a small intrabar range around each
// price.
func barsFromPrices(prices []float64) []*models.Bar {
	bars := make([]*models.Bar, len(prices))
	for i, price := range prices {
		bars[i] = &models.Bar{
			Timestamp: int64(i+1) * dayMillis,
			Open:      price,
			High:      price * 1.005,
			Low:       price * 0.995,
			Close:     price,
			Volume:    1000,
			Price:     price,
		}
	}
	return bars
}

// flatBars builds n identical bars, a market with no movement at all.
func flatBars(n int, price float64) []*models.Bar {
	bars := make([]*models.Bar, n)
	for i := range bars {
		bars[i] = &models.Bar{
			Timestamp: int64(i+1) * dayMillis,
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
			Volume:    1000,
			Price:     price,
		}
	}
	return bars
}

// trendPrices builds a steadily rising price path.
func trendPrices(n int, start float64, dailyReturn float64) []float64 {
	prices := make([]float64, n)
	price := start
	for i := range prices {
		prices[i] = price
		price *= 1 + dailyReturn
	}
	return prices
}

// oscillatingPrices alternates log returns of +/-dailyVol around start, which
// pins annualized volatility to dailyVol*sqrt(tradingDays) with no net drift.
func oscillatingPrices(n int, start float64, dailyVol float64) []float64 {
	prices := make([]float64, n)
	price := start
	for i := range prices {
		prices[i] = price
		if i%2 == 0 {
			price *= math.Exp(dailyVol)
		} else {
			price *= math.Exp(-dailyVol)
		}
	}
	return prices
}

func testConfig() models.AnalysisConfig {
	config := models.EquityProfile("TEST")
	return config
}
