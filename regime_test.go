package sutra

import (
	"math"
	"testing"

	"github.com/sutralabs/sutra/models"
	"github.com/sutralabs/sutra/utils"
)

func TestClassifyRegimeFlatIsRanging(t *testing.T) {
	config := testConfig()
	ohlcv := utils.GetOHLCV(flatBars(60, 100))
	regime, err := ClassifyRegime(ohlcv, config)
	if err != nil {
		t.Fatal(err)
	}
	if regime.Type != models.Ranging {
		t.Fatalf("flat series classified %v, want %v (%v)", regime.Type, models.Ranging, regime.Rationale)
	}
	if regime.Metrics.AnnualizedVol != 0 {
		t.Fatalf("flat series volatility %v, want 0", regime.Metrics.AnnualizedVol)
	}
	if regime.Confidence != 0.75 {
		t.Fatalf("ranging confidence %v, want 0.75", regime.Confidence)
	}
	if regime.Rationale == "" {
		t.Fatal("classification must carry a rationale")
	}
}

func TestClassifyRegimeHighVolIsVolatile(t *testing.T) {
	config := testConfig()
	// Daily log moves sized to annualize near 39%, well above the 25% band.
	daily := 0.3893 / math.Sqrt(252)
	ohlcv := utils.GetOHLCV(barsFromPrices(oscillatingPrices(60, 100, daily)))
	regime, err := ClassifyRegime(ohlcv, config)
	if err != nil {
		t.Fatal(err)
	}
	if regime.Type != models.Volatile {
		t.Fatalf("classified %v, want %v (%v)", regime.Type, models.Volatile, regime.Rationale)
	}
	if regime.Metrics.AnnualizedVol <= config.VolHighThreshold {
		t.Fatalf("annualized vol %v not above %v", regime.Metrics.AnnualizedVol, config.VolHighThreshold)
	}
	if regime.Confidence != 0.8 {
		t.Fatalf("volatile confidence %v, want 0.8", regime.Confidence)
	}
}

func TestClassifyRegimeMidVolNoTrendIsTransitioning(t *testing.T) {
	config := testConfig()
	// Annualizes near 14%: inside the volatility band but directionless.
	daily := 0.1399 / math.Sqrt(252)
	ohlcv := utils.GetOHLCV(barsFromPrices(oscillatingPrices(60, 100, daily)))
	regime, err := ClassifyRegime(ohlcv, config)
	if err != nil {
		t.Fatal(err)
	}
	if regime.Type != models.Transitioning {
		t.Fatalf("classified %v, want %v (%v)", regime.Type, models.Transitioning, regime.Rationale)
	}
	vol := regime.Metrics.AnnualizedVol
	if vol < config.VolLowThreshold || vol > config.VolHighThreshold {
		t.Fatalf("annualized vol %v outside [%v, %v]", vol, config.VolLowThreshold, config.VolHighThreshold)
	}
	if regime.Confidence != 0.5 {
		t.Fatalf("transitioning confidence %v, want 0.5", regime.Confidence)
	}
}

func TestClassifyRegimeTrendingUp(t *testing.T) {
	config := testConfig()
	ohlcv := utils.GetOHLCV(barsFromPrices(trendPrices(60, 100, 0.01)))
	regime, err := ClassifyRegime(ohlcv, config)
	if err != nil {
		t.Fatal(err)
	}
	if regime.Type != models.TrendingUp {
		t.Fatalf("classified %v, want %v (%v)", regime.Type, models.TrendingUp, regime.Rationale)
	}
	if regime.Metrics.PlusDI <= regime.Metrics.MinusDI {
		t.Fatalf("+DI %v must exceed -DI %v in an uptrend", regime.Metrics.PlusDI, regime.Metrics.MinusDI)
	}
}

func TestClassifyRegimeTrendingDown(t *testing.T) {
	config := testConfig()
	ohlcv := utils.GetOHLCV(barsFromPrices(trendPrices(60, 100, -0.01)))
	regime, err := ClassifyRegime(ohlcv, config)
	if err != nil {
		t.Fatal(err)
	}
	if regime.Type != models.TrendingDown {
		t.Fatalf("classified %v, want %v (%v)", regime.Type, models.TrendingDown, regime.Rationale)
	}
}

func TestClassifyRegimeInsufficientData(t *testing.T) {
	config := testConfig()
	ohlcv := utils.GetOHLCV(flatBars(30, 100))
	_, err := ClassifyRegime(ohlcv, config)
	if _, ok := err.(*models.InsufficientDataError); !ok {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestClassifyRegimeIsPure(t *testing.T) {
	config := testConfig()
	ohlcv := utils.GetOHLCV(barsFromPrices(oscillatingPrices(60, 100, 0.01)))
	first, err := ClassifyRegime(ohlcv, config)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ClassifyRegime(ohlcv, config)
	if err != nil {
		t.Fatal(err)
	}
	if first.Type != second.Type || first.Metrics != second.Metrics {
		t.Fatal("identical windows must classify identically")
	}
}
