package sutra

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sutralabs/sutra/models"
)

// ClassifyRegime labels the market state of the window ending at the last
// bar. Each call is a pure function of the window's indicators and trailing
// volatility; no state is carried between evaluations. The volatility it
// computes and the thresholds it compares against share one unit, annualized
// decimal fraction, which config validation guarantees up front.
func ClassifyRegime(ohlcv models.OHLCV, config models.AnalysisConfig) (models.RegimeClassification, error) {
	var out models.RegimeClassification
	n := ohlcv.Len()
	needed := config.RegimeLookback
	if min := config.SMAPeriod + config.SlopeWindow; min > needed {
		needed = min
	}
	if min := 2 * config.ADXPeriod; min > needed {
		needed = min
	}
	if n < needed {
		return out, &models.InsufficientDataError{Needed: needed, Available: n, What: "regime classification"}
	}

	returns, err := Returns(ohlcv.Price[n-config.RegimeLookback:], config.ReturnKind)
	if err != nil {
		return out, err
	}
	clean := CleanReturns(returns)
	volDaily := stat.StdDev(clean, nil)
	if math.IsNaN(volDaily) {
		volDaily = 0
	}
	volAnnualized := volDaily * math.Sqrt(float64(config.TradingDaysPerYear))

	sma, err := Sma(ohlcv.Price, config.SMAPeriod)
	if err != nil {
		return out, err
	}
	smaNow := sma[n-1]
	smaPrev := sma[n-1-config.SlopeWindow]
	slope := 0.0
	if !math.IsNaN(smaPrev) && smaPrev != 0 {
		slope = (smaNow - smaPrev) / smaPrev
	}

	adx, err := Adx(ohlcv.High, ohlcv.Low, ohlcv.Close, config.ADXPeriod)
	if err != nil {
		return out, err
	}
	plusDI, minusDI, err := Di(ohlcv.High, ohlcv.Low, ohlcv.Close, config.ADXPeriod)
	if err != nil {
		return out, err
	}

	price := ohlcv.Price[n-1]
	metrics := models.RegimeMetrics{
		Price:         price,
		AnnualizedVol: volAnnualized,
		SMA:           smaNow,
		SMASlope:      slope,
		ADX:           adx[n-1],
		PlusDI:        plusDI[n-1],
		MinusDI:       minusDI[n-1],
	}

	switch {
	case volAnnualized > config.VolHighThreshold:
		out = models.RegimeClassification{
			Type:       models.Volatile,
			Confidence: 0.8,
			Rationale: fmt.Sprintf("annualized volatility %.2f%% exceeds high threshold %.2f%%",
				volAnnualized*100, config.VolHighThreshold*100),
		}
	case volAnnualized < config.VolLowThreshold && math.Abs(slope) < config.TrendThreshold && metrics.ADX < config.ADXWeakThreshold:
		out = models.RegimeClassification{
			Type:       models.Ranging,
			Confidence: 0.75,
			Rationale: fmt.Sprintf("annualized volatility %.2f%% below low threshold %.2f%%, |SMA slope| %.4f below trend threshold %.4f, ADX %.1f below weak threshold %.1f",
				volAnnualized*100, config.VolLowThreshold*100, math.Abs(slope), config.TrendThreshold, metrics.ADX, config.ADXWeakThreshold),
		}
	case price > smaNow && slope > config.TrendThreshold && metrics.ADX > config.ADXStrongThreshold && metrics.PlusDI > metrics.MinusDI:
		out = models.RegimeClassification{
			Type:       models.TrendingUp,
			Confidence: 0.85,
			Rationale: fmt.Sprintf("price %.2f above SMA(%d) %.2f, SMA slope %.4f above trend threshold %.4f, ADX %.1f above strong threshold %.1f, +DI %.1f > -DI %.1f",
				price, config.SMAPeriod, smaNow, slope, config.TrendThreshold, metrics.ADX, config.ADXStrongThreshold, metrics.PlusDI, metrics.MinusDI),
		}
	case price < smaNow && slope < -config.TrendThreshold && metrics.ADX > config.ADXStrongThreshold && metrics.MinusDI > metrics.PlusDI:
		out = models.RegimeClassification{
			Type:       models.TrendingDown,
			Confidence: 0.85,
			Rationale: fmt.Sprintf("price %.2f below SMA(%d) %.2f, SMA slope %.4f below trend threshold -%.4f, ADX %.1f above strong threshold %.1f, -DI %.1f > +DI %.1f",
				price, config.SMAPeriod, smaNow, slope, config.TrendThreshold, metrics.ADX, config.ADXStrongThreshold, metrics.MinusDI, metrics.PlusDI),
		}
	default:
		out = models.RegimeClassification{
			Type:       models.Transitioning,
			Confidence: 0.5,
			Rationale: fmt.Sprintf("mixed signals: annualized volatility %.2f%% within [%.2f%%, %.2f%%], SMA slope %.4f, ADX %.1f, +DI %.1f, -DI %.1f",
				volAnnualized*100, config.VolLowThreshold*100, config.VolHighThreshold*100, slope, metrics.ADX, metrics.PlusDI, metrics.MinusDI),
		}
	}
	out.Metrics = metrics
	return out, nil
}
