package data

import (
	"os"

	"github.com/gocarina/gocsv"

	"github.com/sutralabs/sutra/models"
)

// LoadRowsFromCSV reads raw OHLCV rows from a CSV file.
func LoadRowsFromCSV(fileName string) ([]RawRow, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows := []RawRow{}
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// LoadBarsFromCSV reads and normalizes bars from a CSV file in one step.
func LoadBarsFromCSV(fileName string, minBars int) ([]*models.Bar, error) {
	rows, err := LoadRowsFromCSV(fileName)
	if err != nil {
		return nil, err
	}
	return Normalize(rows, minBars)
}
