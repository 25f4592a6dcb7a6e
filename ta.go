// Technical indicators for the analytics chain, backed by
// github.com/markcheno/go-talib. The wrappers enforce the warmup contract:
// entries before an indicator's warmup are NaN, never the zeros talib emits.
package sutra

import (
	"fmt"
	"math"
	"sync"

	talib "github.com/markcheno/go-talib"

	"github.com/sutralabs/sutra/models"
)

// maskWarmup overwrites the first n entries with NaN in place and returns the
// slice.
func maskWarmup(values []float64, n int) []float64 {
	for i := 0; i < n && i < len(values); i++ {
		values[i] = math.NaN()
	}
	return values
}

// clampBounded keeps post-warmup oscillator values inside [0, 100]. Flat
// windows can make talib emit NaN where directional movement is undefined;
// those read as 0, no trend.
func clampBounded(values []float64, warmup int) []float64 {
	for i := warmup; i < len(values); i++ {
		if math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
			values[i] = 0
			continue
		}
		if values[i] < 0 {
			values[i] = 0
		} else if values[i] > 100 {
			values[i] = 100
		}
	}
	return values
}

func checkLength(what string, have int, need int) error {
	if have < need {
		return &models.InsufficientDataError{Needed: need, Available: have, What: what}
	}
	return nil
}

// Rsi calculates Wilder's RSI for a given period, bounded to [0, 100]. While
// the smoothed average loss is exactly zero (no down move seen yet) RSI is
// 100 by definition, which talib reports as zero and is corrected here.
func Rsi(prices []float64, period int) ([]float64, error) {
	if err := checkLength("RSI", len(prices), period+1); err != nil {
		return nil, err
	}
	out := talib.Rsi(prices, period)
	lossSeen := false
	for i := 1; i < len(prices); i++ {
		if prices[i] < prices[i-1] {
			lossSeen = true
		}
		if i >= period && !lossSeen {
			out[i] = 100
		}
	}
	return clampBounded(maskWarmup(out, period), period), nil
}

// Sma calculates the simple moving average for a period.
func Sma(prices []float64, period int) ([]float64, error) {
	if err := checkLength("SMA", len(prices), period); err != nil {
		return nil, err
	}
	return maskWarmup(talib.Sma(prices, period), period-1), nil
}

// Ema calculates the exponential moving average for a period.
func Ema(prices []float64, period int) ([]float64, error) {
	if err := checkLength("EMA", len(prices), period); err != nil {
		return nil, err
	}
	return maskWarmup(talib.Ema(prices, period), period-1), nil
}

// Macd calculates MACD, its signal line and the histogram. The histogram is
// recomputed as MACD - signal so the identity holds exactly.
func Macd(prices []float64, fast int, slow int, signal int) ([]float64, []float64, []float64, error) {
	warmup := slow + signal - 2
	if err := checkLength("MACD", len(prices), warmup+1); err != nil {
		return nil, nil, nil, err
	}
	macd, sig, _ := talib.Macd(prices, fast, slow, signal)
	macd = maskWarmup(macd, warmup)
	sig = maskWarmup(sig, warmup)
	hist := make([]float64, len(macd))
	for i := range hist {
		hist[i] = macd[i] - sig[i]
	}
	return macd, sig, hist, nil
}

// Adx calculates the Average Directional Index with Wilder smoothing,
// bounded to [0, 100].
func Adx(high []float64, low []float64, close []float64, period int) ([]float64, error) {
	warmup := 2*period - 1
	if err := checkLength("ADX", len(close), warmup+1); err != nil {
		return nil, err
	}
	out := talib.Adx(high, low, close, period)
	return clampBounded(maskWarmup(out, warmup), warmup), nil
}

// Di calculates the +DI and -DI directional components, bounded to [0, 100].
func Di(high []float64, low []float64, close []float64, period int) ([]float64, []float64, error) {
	if err := checkLength("DI", len(close), period+1); err != nil {
		return nil, nil, err
	}
	plus := clampBounded(maskWarmup(talib.PlusDI(high, low, close, period), period), period)
	minus := clampBounded(maskWarmup(talib.MinusDI(high, low, close, period), period), period)
	return plus, minus, nil
}

// Stoch calculates the fast stochastic %K and its %D moving average. When
// the high/low range of a window is flat the quotient is undefined and %K is
// 50 by convention.
func Stoch(high []float64, low []float64, close []float64, kPeriod int, dPeriod int) ([]float64, []float64, error) {
	kWarmup := kPeriod - 1
	dWarmup := kPeriod + dPeriod - 2
	if err := checkLength("Stochastic", len(close), dWarmup+1); err != nil {
		return nil, nil, err
	}
	k, _ := talib.StochF(high, low, close, kPeriod, dPeriod, talib.SMA)
	highest := talib.Max(high, kPeriod)
	lowest := talib.Min(low, kPeriod)
	for i := kWarmup; i < len(k); i++ {
		if highest[i] == lowest[i] {
			k[i] = 50
		}
	}
	k = clampBounded(k, kWarmup)
	d := talib.Sma(k, dPeriod)
	return maskWarmup(k, kWarmup), maskWarmup(d, dWarmup), nil
}

// Indicators computes the full indicator set for a bar window.
func Indicators(ohlcv models.OHLCV, config models.AnalysisConfig) (models.IndicatorSet, error) {
	var set models.IndicatorSet
	var err error
	if set.RSI, err = Rsi(ohlcv.Price, config.RSIPeriod); err != nil {
		return set, err
	}
	if set.MACD, set.MACDSignal, set.MACDHist, err = Macd(ohlcv.Price, config.MACDFast, config.MACDSlow, config.MACDSignal); err != nil {
		return set, err
	}
	if set.ADX, err = Adx(ohlcv.High, ohlcv.Low, ohlcv.Close, config.ADXPeriod); err != nil {
		return set, err
	}
	if set.PlusDI, set.MinusDI, err = Di(ohlcv.High, ohlcv.Low, ohlcv.Close, config.ADXPeriod); err != nil {
		return set, err
	}
	if set.StochK, set.StochD, err = Stoch(ohlcv.High, ohlcv.Low, ohlcv.Close, config.StochK, config.StochD); err != nil {
		return set, err
	}
	return set, nil
}

// IndicatorCache is an optional read-through cache for indicator sets, keyed
// by symbol, parameter set and window length. A key never matches across
// differing parameter sets, so a stale configuration cannot be reused.
type IndicatorCache struct {
	mu      sync.Mutex
	entries map[string]models.IndicatorSet
}

func NewIndicatorCache() *IndicatorCache {
	return &IndicatorCache{entries: make(map[string]models.IndicatorSet)}
}

func cacheKey(symbol string, config models.AnalysisConfig, barCount int) string {
	return fmt.Sprintf("%s|rsi=%d|macd=%d,%d,%d|adx=%d|stoch=%d,%d|n=%d",
		symbol, config.RSIPeriod, config.MACDFast, config.MACDSlow, config.MACDSignal,
		config.ADXPeriod, config.StochK, config.StochD, barCount)
}

// Indicators returns the cached set for this window or computes and stores
// it.
func (c *IndicatorCache) Indicators(symbol string, ohlcv models.OHLCV, config models.AnalysisConfig) (models.IndicatorSet, error) {
	key := cacheKey(symbol, config, ohlcv.Len())
	c.mu.Lock()
	if set, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return set, nil
	}
	c.mu.Unlock()

	set, err := Indicators(ohlcv, config)
	if err != nil {
		return set, err
	}
	c.mu.Lock()
	c.entries[key] = set
	c.mu.Unlock()
	return set, nil
}
