package sutra

import (
	"math"

	"github.com/sutralabs/sutra/models"
	"github.com/sutralabs/sutra/utils"
)

// Returns derives per-bar returns from the canonical price column. The
// output has one entry per bar and element 0 is NaN: there is no prior bar,
// and substituting zero would bias volatility and Sharpe estimates downward.
// Callers must drop undefined entries with CleanReturns before statistics.
func Returns(prices []float64, kind string) ([]float64, error) {
	if kind != models.LogReturns && kind != models.SimpleReturns {
		return nil, &models.ConfigurationError{Field: "return_kind", Reason: "must be log or simple"}
	}
	out := make([]float64, len(prices))
	if len(out) == 0 {
		return out, nil
	}
	out[0] = math.NaN()
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			out[i] = math.NaN()
			continue
		}
		if kind == models.LogReturns {
			out[i] = math.Log(prices[i] / prices[i-1])
		} else {
			out[i] = prices[i]/prices[i-1] - 1
		}
	}
	return out, nil
}

// CleanReturns drops the undefined entries of a return series. This is the
// only sanctioned way to prepare returns for the risk engine.
func CleanReturns(returns []float64) []float64 {
	return utils.DropNaN(returns)
}
