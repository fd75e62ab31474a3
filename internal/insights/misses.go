package insights

import (
	"math"

	"github.com/couchcryptid/shot-insights-etl/internal/domain"
)

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// StartEndPinAngle returns the angle in degrees at the end point of the
// triangle formed by the shot's start, end and the pin, given the carry,
// start-to-pin and end-to-pin distances. A zero carry or a holed ball gives 0;
// a cosine outside [-1, 1] gives NaN.
func StartEndPinAngle(carry, startToPin, endToPin float64) float64 {
	if !(endToPin > 0 && carry > 0) {
		return 0
	}
	cos := (carry*carry + endToPin*endToPin - startToPin*startToPin) / (2 * carry * endToPin)
	return math.Acos(cos) * 180 / math.Pi
}

// DecomposeMiss splits the end-to-pin distance into a left/right offset
// (positive = right) and a short/long offset (positive = long) from the miss
// bearing and the start-end-pin angle, both in degrees.
func DecomposeMiss(missBearing, angle, endToPin float64) (leftRight, shortLong float64) {
	left := missBearing > 180
	obtuse := angle > 90

	var alpha float64
	if left {
		alpha = 180 - (360 - missBearing) - angle
	} else {
		alpha = 180 - missBearing - angle
	}

	switch {
	case obtuse && left:
		leftRight = -endToPin * math.Sin(radians(alpha))
	case obtuse:
		leftRight = endToPin * math.Sin(radians(alpha))
	case left:
		leftRight = -endToPin * math.Sin(radians(180-alpha))
	default:
		leftRight = endToPin * math.Cos(radians(180-alpha))
	}

	if obtuse {
		shortLong = -endToPin * math.Cos(radians(alpha))
	} else {
		shortLong = endToPin * math.Cos(radians(180-alpha))
	}
	return leftRight, shortLong
}

// measureMiss computes the bearings, miss angle and miss offsets of one
// shot. Distances must already be set.
func measureMiss(s *domain.ShotRecord) {
	start, end, pin := shotPoints(s)

	startToEnd := Bearing(start, end)
	startToPin := Bearing(start, pin)
	missBearing := normalize360(startToEnd - startToPin)
	angle := StartEndPinAngle(float64(s.DistanceYards), float64(s.StartDistanceYards), float64(s.EndDistanceYards))
	leftRight, shortLong := DecomposeMiss(missBearing, angle, float64(s.EndDistanceYards))

	s.StartToEndBearing = domain.Float(startToEnd)
	s.StartToPinBearing = domain.Float(startToPin)
	s.MissBearingLeftRight = domain.Float(missBearing)
	s.EndToPinBearing = domain.Float(Bearing(end, pin))
	s.StartEndPinAngle = domain.Float(angle)
	s.MissDistanceLeftRight = domain.Float(leftRight)
	s.MissDistanceShortLong = domain.Float(shortLong)
}

// labelMiss sets the miss direction labels. Only approach shots that missed
// the green get left/right and short/long labels; tee shots take their label
// from the fairway indicators.
func labelMiss(s *domain.ShotRecord) {
	missedGreen := s.ShotType == domain.ShotTypeApproach && s.IsGIR != nil && !*s.IsGIR

	s.MissDirectionLeftRight = ""
	s.MissDirectionShortLong = ""
	if missedGreen {
		s.MissDirectionLeftRight = signLabel(float64(s.MissDistanceLeftRight), domain.MissLeft, domain.MissRight)
		s.MissDirectionShortLong = signLabel(float64(s.MissDistanceShortLong), domain.MissShort, domain.MissLong)
	}

	switch {
	case s.ShotType == domain.ShotTypeTee && isTrue(s.IsFairwayRight):
		s.MissDirection = domain.MissRight
	case s.ShotType == domain.ShotTypeTee && isTrue(s.IsFairwayLeft):
		s.MissDirection = domain.MissLeft
	case missedGreen:
		s.MissDirection = joinLabels(s.MissDirectionShortLong, s.MissDirectionLeftRight)
	default:
		s.MissDirection = ""
	}
}

func signLabel(v float64, negative, positive string) string {
	switch {
	case v < 0:
		return negative
	case v > 0:
		return positive
	default:
		return ""
	}
}

func joinLabels(shortLong, leftRight string) string {
	switch {
	case shortLong == "":
		return leftRight
	case leftRight == "":
		return shortLong
	default:
		return shortLong + " " + leftRight
	}
}

func isTrue(b *bool) bool { return b != nil && *b }

// AnalyzeMisses measures and labels the miss of every shot. Shots must be
// classified first.
func AnalyzeMisses(shots []domain.ShotRecord) {
	for i := range shots {
		measureMiss(&shots[i])
		labelMiss(&shots[i])
	}
}
