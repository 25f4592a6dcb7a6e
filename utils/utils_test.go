package utils

import (
	"math"
	"strings"
	"testing"

	"github.com/sutralabs/sutra/models"
)

func TestGetOHLCV(t *testing.T) {
	bars := []*models.Bar{
		{Timestamp: 1, Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 100, Price: 10.4},
		{Timestamp: 2, Open: 10.5, High: 12, Low: 10, Close: 11, Volume: 200, Price: 11},
	}
	ohlcv := GetOHLCV(bars)
	if ohlcv.Len() != 2 {
		t.Fatalf("len %d, want 2", ohlcv.Len())
	}
	if ohlcv.Price[0] != 10.4 || ohlcv.High[1] != 12 {
		t.Fatalf("columns mangled: %+v", ohlcv)
	}
}

func TestCalculateDifference(t *testing.T) {
	if got := CalculateDifference(110, 100); math.Abs(got-0.1) > 1e-12 {
		t.Fatalf("difference %v, want 0.1", got)
	}
	if got := CalculateDifference(5, 0); got != 4 {
		t.Fatalf("zero-base difference %v, want 4", got)
	}
}

func TestDropNaN(t *testing.T) {
	out := DropNaN([]float64{math.NaN(), 1, math.NaN(), 2})
	if len(out) != 2 || out[0] != 1 || out[1] != 2 {
		t.Fatalf("got %v, want [1 2]", out)
	}
}

func TestSortedCopyLeavesInputAlone(t *testing.T) {
	in := []float64{3, 1, 2}
	out := SortedCopy(in)
	if out[0] != 1 || out[2] != 3 {
		t.Fatalf("got %v, want ascending", out)
	}
	if in[0] != 3 {
		t.Fatal("input was mutated")
	}
}

func TestConstrainFloat(t *testing.T) {
	if got := ConstrainFloat(1.5, 0, 1); got != 1 {
		t.Fatalf("got %v, want 1", got)
	}
	if got := ConstrainFloat(-0.5, 0, 1); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
	if got := ConstrainFloat(0.5, 0, 1); got != 0.5 {
		t.Fatalf("got %v, want 0.5", got)
	}
}

func TestCreateKeyValuePairsStableOrder(t *testing.T) {
	m := map[string]interface{}{"b": 2, "a": 1}
	out := CreateKeyValuePairs(m)
	if strings.Index(out, "a:") > strings.Index(out, "b:") {
		t.Fatalf("keys not sorted: %q", out)
	}
}
