package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/shot-insights-etl/internal/insights"
)

// CSV column headers.
const (
	colDistance     = "Distance"
	colPuttDistance = "Distance (feet)"
	colPutts        = "Expected putts"
)

// LoadCSV reads the long-game table (Distance,Tee,Fairway,Rough,Sand; yards)
// and the putting table (Distance (feet),Expected putts). Blank cells are
// skipped per column so each lie can cover its own distance range.
func LoadCSV(benchmarkPath, puttingPath string) (insights.BenchmarkTables, error) {
	long, err := readColumns(benchmarkPath, colDistance, []string{"Tee", "Fairway", "Rough", "Sand"}, 1)
	if err != nil {
		return insights.BenchmarkTables{}, err
	}
	putting, err := readColumns(puttingPath, colPuttDistance, []string{colPutts}, feetPerYard)
	if err != nil {
		return insights.BenchmarkTables{}, err
	}

	return insights.BenchmarkTables{
		Tee:     long["Tee"],
		Fairway: long["Fairway"],
		Rough:   long["Rough"],
		Sand:    long["Sand"],
		Green:   putting[colPutts],
	}, nil
}

func readColumns(path, distanceCol string, valueCols []string, scale float64) (map[string][]insights.CurvePoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read benchmark: %w", err)
	}
	defer f.Close()

	curves, err := parseColumns(f, distanceCol, valueCols, scale)
	if err != nil {
		return nil, fmt.Errorf("load benchmark %s: %w", path, err)
	}
	return curves, nil
}

func parseColumns(r io.Reader, distanceCol string, valueCols []string, scale float64) (map[string][]insights.CurvePoint, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrMalformed, err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range append([]string{distanceCol}, valueCols...) {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformed, col)
		}
	}

	curves := make(map[string][]insights.CurvePoint, len(valueCols))
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		distance, ok, err := cell(record, index[distanceCol])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformed, row, err)
		}
		if !ok {
			continue
		}
		for _, col := range valueCols {
			strokes, ok, err := cell(record, index[col])
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %s: %v", ErrMalformed, row, col, err)
			}
			if ok {
				curves[col] = append(curves[col], insights.CurvePoint{Distance: distance / scale, Strokes: strokes})
			}
		}
	}
	return curves, nil
}

// cell parses a numeric cell. A blank or missing cell reports ok=false.
func cell(record []string, i int) (v float64, ok bool, err error) {
	if i >= len(record) {
		return 0, false, nil
	}
	s := strings.TrimSpace(record[i])
	if s == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}
