// Package utils holds the small shared helpers used across the engine.
package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"

	"github.com/sutralabs/sutra/models"
)

// LoadENV loads environment variables from AWS Secrets Manager when running
// in a managed environment, e.g. database credentials for batch runs.
func LoadENV(secretName string, region string) {
	secretFile := getSecret(secretName, region)
	secret := make(map[string]interface{})
	if err := json.Unmarshal([]byte(secretFile), &secret); err != nil {
		log.Println("Could not parse secret", secretName)
		return
	}
	for key, value := range secret {
		os.Setenv(key, value.(string))
	}
}

func getSecret(secretName string, region string) string {
	svc := secretsmanager.New(session.New(), aws.NewConfig().WithRegion(region))
	input := &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretName),
		VersionStage: aws.String("AWSCURRENT"),
	}
	result, err := svc.GetSecretValue(input)
	if err != nil {
		log.Println("Could not load secret", secretName, err)
		return ""
	}
	if result.SecretString != nil {
		return *result.SecretString
	}
	return ""
}

// GetOHLCV converts a bar slice to column-major arrays for the indicator
// engine.
func GetOHLCV(bars []*models.Bar) (ohlcv models.OHLCV) {
	n := len(bars)
	ohlcv = models.OHLCV{
		Timestamp: make([]int64, n),
		Open:      make([]float64, n),
		High:      make([]float64, n),
		Low:       make([]float64, n),
		Close:     make([]float64, n),
		Volume:    make([]float64, n),
		Price:     make([]float64, n),
	}
	for i, bar := range bars {
		ohlcv.Timestamp[i] = bar.Timestamp
		ohlcv.Open[i] = bar.Open
		ohlcv.High[i] = bar.High
		ohlcv.Low[i] = bar.Low
		ohlcv.Close[i] = bar.Close
		ohlcv.Volume[i] = bar.Volume
		ohlcv.Price[i] = bar.Price
	}
	return
}

// CalculateDifference gets the percentage difference between 2 numbers.
func CalculateDifference(x float64, y float64) float64 {
	if y == 0 {
		y = 1
	}
	return (x - y) / y
}

func SumArr(arr []float64) float64 {
	sum := 0.0
	for _, v := range arr {
		sum += v
	}
	return sum
}

func MulArr(arr []float64, multiple float64) []float64 {
	out := make([]float64, len(arr))
	for i := range arr {
		out[i] = arr[i] * multiple
	}
	return out
}

func MulArrs(a []float64, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] * b[i]
	}
	return out
}

// DropNaN returns a copy of arr with NaN entries removed.
func DropNaN(arr []float64) []float64 {
	out := make([]float64, 0, len(arr))
	for _, v := range arr {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// SortedCopy returns an ascending copy of arr, as required by the gonum
// quantile functions.
func SortedCopy(arr []float64) []float64 {
	out := make([]float64, len(arr))
	copy(out, arr)
	sort.Float64s(out)
	return out
}

func ConstrainFloat(x float64, min float64, max float64) float64 {
	return math.Min(math.Max(x, min), max)
}

func round(num float64) int {
	return int(num + math.Copysign(0.5, num))
}

func ToFixed(num float64, precision int) float64 {
	output := math.Pow(10, float64(precision))
	return float64(round(num*output)) / output
}

func TimestampToTime(timestamp int64) time.Time {
	return time.Unix(timestamp/1000, 0).UTC()
}

func TimeToTimestamp(timeObject time.Time) int64 {
	return timeObject.Unix() * 1000
}

// CreateKeyValuePairs renders a map for logging, keys sorted for stable
// output.
func CreateKeyValuePairs(m map[string]interface{}) string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	b := new(bytes.Buffer)
	fmt.Fprint(b, "{\n")
	for _, key := range keys {
		fmt.Fprintf(b, " %s: %v,\n", key, m[key])
	}
	fmt.Fprint(b, "}\n")
	return b.String()
}
