package sutra

import (
	"math"
	"sort"

	"github.com/sutralabs/sutra/models"
)

// The standard retracement ratio set.
var fibRatios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1.0}

// Relative distance under which neighboring extrema collapse into one level.
const srClusterTolerance = 0.01

// Fibonacci identifies the highest high and lowest low of the lookback window
// ending at the last bar, records them as auditable anchors and computes the
// standard retracement set between them. A window where the low precedes the
// high is treated as an uptrend: ratio 0 sits at the high anchor and prices
// descend toward ratio 1 at the low; a downtrend window is swapped
// consistently.
func Fibonacci(ohlcv models.OHLCV, lookback int) (models.FibonacciLevels, error) {
	var levels models.FibonacciLevels
	n := ohlcv.Len()
	if n < lookback {
		return levels, &models.InsufficientDataError{Needed: lookback, Available: n, What: "Fibonacci levels"}
	}
	start := n - lookback

	highIdx, lowIdx := start, start
	for i := start; i < n; i++ {
		if ohlcv.High[i] > ohlcv.High[highIdx] {
			highIdx = i
		}
		if ohlcv.Low[i] < ohlcv.Low[lowIdx] {
			lowIdx = i
		}
	}

	levels.WindowStart = ohlcv.Timestamp[start]
	levels.WindowEnd = ohlcv.Timestamp[n-1]
	levels.HighAnchor = models.Anchor{Timestamp: ohlcv.Timestamp[highIdx], Price: ohlcv.High[highIdx]}
	levels.LowAnchor = models.Anchor{Timestamp: ohlcv.Timestamp[lowIdx], Price: ohlcv.Low[lowIdx]}
	levels.Uptrend = lowIdx <= highIdx

	for _, anchor := range []models.Anchor{levels.HighAnchor, levels.LowAnchor} {
		if anchor.Timestamp < levels.WindowStart || anchor.Timestamp > levels.WindowEnd {
			return levels, &models.LevelAnchorError{
				AnchorTimestamp: anchor.Timestamp,
				WindowStart:     levels.WindowStart,
				WindowEnd:       levels.WindowEnd,
			}
		}
	}

	span := levels.HighAnchor.Price - levels.LowAnchor.Price
	levels.Levels = make([]models.FibLevel, len(fibRatios))
	for i, ratio := range fibRatios {
		if levels.Uptrend {
			levels.Levels[i] = models.FibLevel{Ratio: ratio, Price: levels.HighAnchor.Price - span*ratio}
		} else {
			levels.Levels[i] = models.FibLevel{Ratio: ratio, Price: levels.LowAnchor.Price + span*ratio}
		}
	}
	return levels, nil
}

// SupportResistance finds local extrema clusters within the lookback window,
// keeps those within the configured proximity of the current price and
// returns them sorted descending.
func SupportResistance(ohlcv models.OHLCV, lookback int, proximityPct float64) (models.SupportResistance, error) {
	var sr models.SupportResistance
	n := ohlcv.Len()
	if n < lookback {
		return sr, &models.InsufficientDataError{Needed: lookback, Available: n, What: "support/resistance levels"}
	}
	start := n - lookback
	current := ohlcv.Price[n-1]

	var candidates []float64
	for i := start + 2; i < n-2; i++ {
		if ohlcv.High[i] > ohlcv.High[i-1] && ohlcv.High[i] > ohlcv.High[i-2] &&
			ohlcv.High[i] > ohlcv.High[i+1] && ohlcv.High[i] > ohlcv.High[i+2] {
			candidates = append(candidates, ohlcv.High[i])
		}
		if ohlcv.Low[i] < ohlcv.Low[i-1] && ohlcv.Low[i] < ohlcv.Low[i-2] &&
			ohlcv.Low[i] < ohlcv.Low[i+1] && ohlcv.Low[i] < ohlcv.Low[i+2] {
			candidates = append(candidates, ohlcv.Low[i])
		}
	}
	sort.Float64s(candidates)

	// Collapse neighboring extrema into cluster means.
	var clustered []float64
	var cluster []float64
	for _, level := range candidates {
		if len(cluster) > 0 && (level-cluster[0])/cluster[0] > srClusterTolerance {
			clustered = append(clustered, mean(cluster))
			cluster = cluster[:0]
		}
		cluster = append(cluster, level)
	}
	if len(cluster) > 0 {
		clustered = append(clustered, mean(cluster))
	}

	var kept []float64
	for _, level := range clustered {
		if math.Abs(level-current)/current <= proximityPct {
			kept = append(kept, level)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(kept)))

	sr.Levels = kept
	sr.CurrentPrice = current
	sr.ProximityPct = proximityPct
	sr.WindowStart = ohlcv.Timestamp[start]
	sr.WindowEnd = ohlcv.Timestamp[n-1]
	return sr, nil
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
