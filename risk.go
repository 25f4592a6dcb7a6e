package sutra

import (
	"math"

	gaussian "github.com/chobie/go-gaussian"
	"gonum.org/v1/gonum/stat"

	"github.com/sutralabs/sutra/models"
	"github.com/sutralabs/sutra/utils"
)

// ComputeRisk builds a risk report from a cleaned (NaN-dropped) return
// series. Every field in the report carries its horizon and annualization in
// metadata; nothing needs to be inferred by the consumer. Degenerate inputs
// (too few samples, zero variance) yield zeroed metrics rather than division
// errors.
func ComputeRisk(returns []float64, config models.AnalysisConfig) models.RiskReport {
	report := models.RiskReport{
		VaRConfidence:      config.VaRConfidence,
		CVaRConfidence:     config.CVaRConfidence,
		HorizonDays:        config.VaRHorizonDays,
		TradingDaysPerYear: config.TradingDaysPerYear,
		ReturnKind:         config.ReturnKind,
		SampleSize:         len(returns),
	}
	if len(returns) < 2 {
		return report
	}

	annualizer := math.Sqrt(float64(config.TradingDaysPerYear))
	horizonScale := math.Sqrt(float64(config.VaRHorizonDays))

	mean, std := stat.MeanStdDev(returns, nil)
	report.VolDaily = std
	report.VolAnnualized = std * annualizer

	sorted := utils.SortedCopy(returns)
	varQuantile := stat.Quantile(1-config.VaRConfidence, stat.Empirical, sorted, nil)
	report.VaR = varQuantile * horizonScale

	cvarQuantile := stat.Quantile(1-config.CVaRConfidence, stat.Empirical, sorted, nil)
	tailSum, tailCount := 0.0, 0
	for _, r := range sorted {
		if r <= cvarQuantile {
			tailSum += r
			tailCount++
		}
	}
	if tailCount > 0 {
		report.CVaR = tailSum / float64(tailCount) * horizonScale
	} else {
		report.CVaR = report.VaR
	}
	if report.CVaR > report.VaR {
		report.CVaR = report.VaR
	}

	if std > 0 {
		dist := gaussian.NewGaussian(mean, std*std)
		report.VaRParametric = dist.Ppf(1-config.VaRConfidence) * horizonScale
		report.Sharpe = mean / std * annualizer
	}

	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if len(downside) > 1 {
		downsideStd := stat.StdDev(downside, nil)
		if downsideStd > 0 {
			report.Sortino = mean / downsideStd * annualizer
		}
	}

	equity := 1.0
	peak := 1.0
	maxDrawdown := 0.0
	for _, r := range returns {
		if config.ReturnKind == models.LogReturns {
			equity *= math.Exp(r)
		} else {
			equity *= 1 + r
		}
		if equity > peak {
			peak = equity
		}
		dd := utils.CalculateDifference(equity, peak)
		if dd < maxDrawdown {
			maxDrawdown = dd
		}
	}
	report.MaxDrawdown = maxDrawdown
	if equity > 0 {
		report.AnnualizedReturn = math.Pow(equity, float64(config.TradingDaysPerYear)/float64(len(returns))) - 1
	}
	if maxDrawdown < 0 {
		report.Calmar = report.AnnualizedReturn / math.Abs(maxDrawdown)
	}
	return report
}
