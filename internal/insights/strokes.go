package insights

import (
	"fmt"
	"math"
	"sort"

	"github.com/couchcryptid/shot-insights-etl/internal/domain"
)

// LastShotPolicy selects how strokes gained is computed for the final shot of
// a hole, which has no next shot.
type LastShotPolicy int

const (
	// LastShotReference charges the last shot one stroke, like every other
	// shot. The historical data was produced this way: its last-shot branch
	// tested an undefined next shot for truth, which always held.
	LastShotReference LastShotPolicy = iota
	// LastShotUndefined charges (next shot - shot) strokes with the next shot
	// undefined, so the last shot's strokes gained is NaN.
	LastShotUndefined
)

func (p LastShotPolicy) String() string {
	switch p {
	case LastShotReference:
		return "reference"
	case LastShotUndefined:
		return "undefined"
	default:
		return fmt.Sprintf("LastShotPolicy(%d)", int(p))
	}
}

// ParseLastShotPolicy parses "reference" or "undefined".
func ParseLastShotPolicy(s string) (LastShotPolicy, error) {
	switch s {
	case "", "reference":
		return LastShotReference, nil
	case "undefined":
		return LastShotUndefined, nil
	default:
		return 0, fmt.Errorf("unknown last shot policy %q", s)
	}
}

// SortShots orders shots by user, round start, round, hole and shot.
func SortShots(shots []domain.ShotRecord) {
	sort.SliceStable(shots, func(i, j int) bool {
		return shots[i].Less(&shots[j])
	})
}

// AssignNextShots sets NextShotID to the following shot's ID within the same
// hole. Shots must be sorted; the last shot of each hole gets nil.
func AssignNextShots(shots []domain.ShotRecord) {
	for i := range shots {
		shots[i].NextShotID = nil
		if i+1 < len(shots) && shots[i+1].Hole() == shots[i].Hole() {
			next := shots[i+1].ShotID
			shots[i].NextShotID = &next
		}
	}
}

// StrokesGained returns the benchmark strokes to hole out from the shot's
// start, minus those from its end, minus the strokes the shot cost.
func StrokesGained(s *domain.ShotRecord, model *BenchmarkModel, policy LastShotPolicy) float64 {
	start := model.ExpectedStrokes(float64(s.StartDistanceYards), s.StartLie)
	end := model.ExpectedStrokes(float64(s.EndDistanceYards), s.EndLie)

	if s.NextShotID != nil || policy == LastShotReference {
		return start - end - 1
	}
	next := math.NaN()
	return start - end - (next - float64(s.ShotID))
}

// CalculateStrokesGained sorts the shots, links each to its next shot, and
// sets StrokesGained. It returns the number of shots whose value is undefined.
func CalculateStrokesGained(shots []domain.ShotRecord, model *BenchmarkModel, policy LastShotPolicy) int {
	SortShots(shots)
	AssignNextShots(shots)

	undefined := 0
	for i := range shots {
		sg := StrokesGained(&shots[i], model, policy)
		if math.IsNaN(sg) {
			undefined++
		}
		shots[i].StrokesGained = domain.Float(sg)
	}
	return undefined
}
