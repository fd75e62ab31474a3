package insights

import (
	"math"

	"github.com/couchcryptid/shot-insights-etl/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// greensideYards is the start distance at or under which an off-green shot
// counts as greenside, and the end distance over which an approach did not
// reach the green complex.
const greensideYards = 30

// lies maps raw provider terrain to normalized lies. Matching is case sensitive.
var lies = map[string]string{
	"tee":               domain.LieTee,
	"fairway":           domain.LieFairway,
	"rough":             domain.LieRough,
	"sand":              domain.LieSand,
	"green":             domain.LieGreen,
	"Green":             domain.LieGreen,
	domain.LieInTheHole: domain.LieInTheHole,
}

// NormalizeLie maps a raw terrain string to its lie. Unknown and empty values
// are treated as green.
func NormalizeLie(raw string) string {
	if lie, ok := lies[raw]; ok {
		return lie
	}
	return domain.LieGreen
}

// StandardizeLies sets StartLie and EndLie from the raw terrain. The last
// shot of a hole always ends in the hole.
func StandardizeLies(shots []domain.ShotRecord) {
	for i := range shots {
		s := &shots[i]
		s.StartLie = NormalizeLie(s.StartTerrain)
		if s.IsLastShot() {
			s.EndLie = domain.LieInTheHole
		} else {
			s.EndLie = NormalizeLie(s.EndTerrain)
		}
	}
}

func shotType(s *domain.ShotRecord) string {
	switch {
	case s.StartLie == domain.LieTee && s.HolePar != 3:
		return domain.ShotTypeTee
	case float64(s.StartDistanceYards) <= greensideYards && s.StartLie != domain.LieGreen:
		return domain.ShotTypeGreenside
	case s.StartLie == domain.LieGreen:
		return domain.ShotTypePutt
	default:
		return domain.ShotTypeApproach
	}
}

func shotSubtype(s *domain.ShotRecord) string {
	z := float64(s.DistanceZScore)
	startZ := float64(s.StartDistanceZScore)
	end := float64(s.EndDistanceYards)

	switch {
	case s.ShotType == domain.ShotTypeTee:
		return domain.ShotTypeTee
	case s.ShotType == domain.ShotTypeApproach && z <= -1 && end > greensideYards && s.EndLie != domain.LieFairway:
		return domain.SubtypeRecovery
	case s.ShotType == domain.ShotTypeApproach && z > -1 && startZ > 1 && end > greensideYards:
		return domain.SubtypeLayUp
	case s.ShotType == domain.ShotTypeGreenside:
		return domain.ShotTypeGreenside
	case s.ShotType == domain.ShotTypePutt:
		return domain.ShotTypePutt
	default:
		return domain.SubtypeGoingForGreen
	}
}

// scoreKey partitions shots for z-scoring.
type scoreKey struct {
	UserID   string
	ShotType string
	ClubType int
}

type moments struct {
	mean, sd float64
}

// zscore returns the standard score of x, or 0 when the partition has no
// usable spread.
func (m moments) zscore(x float64) float64 {
	z := (x - m.mean) / m.sd
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return 0
	}
	return z
}

func partitionMoments(values []float64) moments {
	if len(values) < 2 {
		return moments{mean: math.NaN(), sd: math.NaN()}
	}
	// A constant partition has no spread even when its mean rounds off.
	if constant(values) {
		return moments{mean: values[0], sd: 0}
	}
	mean, sd := stat.MeanStdDev(values, nil)
	return moments{mean: mean, sd: sd}
}

func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// ScoreDistances sets the sample z-scores (n-1 divisor) of carry distance and
// start distance within each (user, shot type, club) partition.
func ScoreDistances(shots []domain.ShotRecord) {
	carries := make(map[scoreKey][]float64)
	starts := make(map[scoreKey][]float64)
	for i := range shots {
		s := &shots[i]
		k := scoreKey{UserID: s.UserID, ShotType: s.ShotType, ClubType: s.ClubType}
		carries[k] = append(carries[k], float64(s.DistanceYards))
		starts[k] = append(starts[k], float64(s.StartDistanceYards))
	}

	carryMoments := make(map[scoreKey]moments, len(carries))
	for k, v := range carries {
		carryMoments[k] = partitionMoments(v)
	}
	startMoments := make(map[scoreKey]moments, len(starts))
	for k, v := range starts {
		startMoments[k] = partitionMoments(v)
	}

	for i := range shots {
		s := &shots[i]
		k := scoreKey{UserID: s.UserID, ShotType: s.ShotType, ClubType: s.ClubType}
		s.DistanceZScore = domain.Float(carryMoments[k].zscore(float64(s.DistanceYards)))
		s.StartDistanceZScore = domain.Float(startMoments[k].zscore(float64(s.StartDistanceYards)))
	}
}

// ClassifyShots assigns shot types, scores distances within partitions, and
// assigns subtypes. Lies and distances must already be set.
func ClassifyShots(shots []domain.ShotRecord) {
	for i := range shots {
		shots[i].ShotType = shotType(&shots[i])
	}
	ScoreDistances(shots)
	for i := range shots {
		shots[i].ShotSubtype = shotSubtype(&shots[i])
	}
}
