// Package reference loads the benchmark curves used for strokes gained.
//
// The PGA Tour benchmark is embedded in the binary. Alternative benchmarks can
// be supplied as a YAML file of the same shape, or as the pair of CSV tables
// the historical analysis used.
package reference

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/couchcryptid/shot-insights-etl/internal/insights"
	"gopkg.in/yaml.v3"
)

const feetPerYard = 3

//go:embed pga_benchmark.yaml
var pgaBenchmark []byte

// ErrMalformed is returned when a benchmark file cannot be turned into curves.
var ErrMalformed = errors.New("malformed benchmark")

// tablesFile is the YAML layout. Each point is [distance, strokes].
type tablesFile struct {
	Tee         [][]float64 `yaml:"tee"`
	Fairway     [][]float64 `yaml:"fairway"`
	Rough       [][]float64 `yaml:"rough"`
	Sand        [][]float64 `yaml:"sand"`
	PuttingFeet [][]float64 `yaml:"putting_feet"`
}

// Default returns the embedded PGA Tour benchmark.
func Default() insights.BenchmarkTables {
	tables, err := parseYAML(pgaBenchmark)
	if err != nil {
		panic(fmt.Sprintf("embedded benchmark: %v", err))
	}
	return tables
}

// LoadFile reads benchmark tables from a YAML file.
func LoadFile(path string) (insights.BenchmarkTables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return insights.BenchmarkTables{}, fmt.Errorf("read benchmark: %w", err)
	}
	tables, err := parseYAML(data)
	if err != nil {
		return insights.BenchmarkTables{}, fmt.Errorf("load benchmark %s: %w", path, err)
	}
	return tables, nil
}

// Load picks the benchmark source: a YAML file when file is set, the CSV
// pair when both CSV paths are set, and the embedded tables otherwise.
func Load(file, benchmarkCSV, puttingCSV string) (insights.BenchmarkTables, error) {
	switch {
	case file != "":
		return LoadFile(file)
	case benchmarkCSV != "" && puttingCSV != "":
		return LoadCSV(benchmarkCSV, puttingCSV)
	case benchmarkCSV != "" || puttingCSV != "":
		return insights.BenchmarkTables{}, fmt.Errorf("%w: benchmark and putting CSV must be given together", ErrMalformed)
	default:
		return Default(), nil
	}
}

func parseYAML(data []byte) (insights.BenchmarkTables, error) {
	var f tablesFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return insights.BenchmarkTables{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var tables insights.BenchmarkTables
	curves := []struct {
		name  string
		pairs [][]float64
		scale float64
		dst   *[]insights.CurvePoint
	}{
		{"tee", f.Tee, 1, &tables.Tee},
		{"fairway", f.Fairway, 1, &tables.Fairway},
		{"rough", f.Rough, 1, &tables.Rough},
		{"sand", f.Sand, 1, &tables.Sand},
		{"putting_feet", f.PuttingFeet, feetPerYard, &tables.Green},
	}
	for _, c := range curves {
		points, err := toPoints(c.pairs, c.scale)
		if err != nil {
			return insights.BenchmarkTables{}, fmt.Errorf("%s: %w", c.name, err)
		}
		*c.dst = points
	}
	return tables, nil
}

// toPoints converts [distance, strokes] pairs, dividing each distance by
// scale.
func toPoints(pairs [][]float64, scale float64) ([]insights.CurvePoint, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: no points", ErrMalformed)
	}
	points := make([]insights.CurvePoint, 0, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return nil, fmt.Errorf("%w: point %d has %d values, want 2", ErrMalformed, i, len(p))
		}
		points = append(points, insights.CurvePoint{Distance: p[0] / scale, Strokes: p[1]})
	}
	return points, nil
}
