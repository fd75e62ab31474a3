package insights

import (
	"errors"
	"fmt"
	"math"

	"github.com/couchcryptid/shot-insights-etl/internal/domain"
	"gonum.org/v1/gonum/interp"
)

// ErrInvalidCurve is returned when a benchmark curve cannot be interpolated.
var ErrInvalidCurve = errors.New("invalid benchmark curve")

// CurvePoint is one reference observation: expected strokes to hole out from
// a distance in yards.
type CurvePoint struct {
	Distance float64
	Strokes  float64
}

// BenchmarkTables holds the reference curves per lie. Green is the putting
// curve; all distances are in yards.
type BenchmarkTables struct {
	Tee     []CurvePoint
	Fairway []CurvePoint
	Rough   []CurvePoint
	Sand    []CurvePoint
	Green   []CurvePoint
}

type benchmarkCurve struct {
	fit         interp.PiecewiseLinear
	xs, ys      []float64
	extrapolate bool
}

func newBenchmarkCurve(lie string, points []CurvePoint, extrapolate bool) (*benchmarkCurve, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: %s has %d points, need at least 2", ErrInvalidCurve, lie, len(points))
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		if math.IsNaN(p.Distance) || math.IsInf(p.Distance, 0) || math.IsNaN(p.Strokes) || math.IsInf(p.Strokes, 0) {
			return nil, fmt.Errorf("%w: %s point %d is not finite", ErrInvalidCurve, lie, i)
		}
		if i > 0 && p.Distance <= xs[i-1] {
			return nil, fmt.Errorf("%w: %s distances not strictly increasing at %g", ErrInvalidCurve, lie, p.Distance)
		}
		xs[i] = p.Distance
		ys[i] = p.Strokes
	}

	c := &benchmarkCurve{xs: xs, ys: ys, extrapolate: extrapolate}
	if err := c.fit.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCurve, lie, err)
	}
	return c, nil
}

func (c *benchmarkCurve) at(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return math.NaN()
	}
	n := len(c.xs)
	switch {
	case x < c.xs[0]:
		if !c.extrapolate {
			return math.NaN()
		}
		return c.ys[0] + (x-c.xs[0])*(c.ys[1]-c.ys[0])/(c.xs[1]-c.xs[0])
	case x > c.xs[n-1]:
		if !c.extrapolate {
			return math.NaN()
		}
		return c.ys[n-1] + (x-c.xs[n-1])*(c.ys[n-1]-c.ys[n-2])/(c.xs[n-1]-c.xs[n-2])
	}
	return c.fit.Predict(x)
}

// BenchmarkModel answers expected-strokes lookups. It is immutable after
// construction and safe for concurrent use.
type BenchmarkModel struct {
	curves map[string]*benchmarkCurve
}

// NewBenchmarkModel validates and fits the tables. The long-game curves
// extrapolate linearly past their recorded range; the putting curve does not.
func NewBenchmarkModel(tables BenchmarkTables) (*BenchmarkModel, error) {
	specs := []struct {
		lie         string
		points      []CurvePoint
		extrapolate bool
	}{
		{domain.LieTee, tables.Tee, true},
		{domain.LieFairway, tables.Fairway, true},
		{domain.LieRough, tables.Rough, true},
		{domain.LieSand, tables.Sand, true},
		{domain.LieGreen, tables.Green, false},
	}

	m := &BenchmarkModel{curves: make(map[string]*benchmarkCurve, len(specs))}
	for _, s := range specs {
		c, err := newBenchmarkCurve(s.lie, s.points, s.extrapolate)
		if err != nil {
			return nil, err
		}
		m.curves[s.lie] = c
	}
	return m, nil
}

// ExpectedStrokes returns the benchmark number of strokes to hole out from
// distance yards on lie. A holed ball needs 0; an unknown lie, or a putt
// outside the putting table's range, is NaN.
func (m *BenchmarkModel) ExpectedStrokes(distance float64, lie string) float64 {
	if lie == domain.LieInTheHole {
		return 0
	}
	c, ok := m.curves[lie]
	if !ok {
		return math.NaN()
	}
	return c.at(distance)
}
