package insights

import (
	"math"

	"github.com/couchcryptid/shot-insights-etl/internal/domain"
)

// shotPoints returns the start, end and pin of a shot. Call locateShot first
// so the end coordinates are resolved.
func shotPoints(s *domain.ShotRecord) (start, end, pin Point) {
	start = Point{Lat: s.StartLat, Lon: s.StartLong}
	pin = Point{Lat: s.PinLat, Lon: s.PinLong}
	end = pin
	if s.EndLat != nil {
		end.Lat = *s.EndLat
	}
	if s.EndLong != nil {
		end.Lon = *s.EndLong
	}
	return start, end, pin
}

// locateShot fills missing end coordinates from the pin and computes the
// start, end and carry distances of a single shot.
func locateShot(s *domain.ShotRecord) {
	if s.EndLat == nil || math.IsNaN(*s.EndLat) {
		lat := s.PinLat
		s.EndLat = &lat
	}
	if s.EndLong == nil || math.IsNaN(*s.EndLong) {
		lon := s.PinLong
		s.EndLong = &lon
	}

	start, end, pin := shotPoints(s)
	s.StartDistanceYards = domain.Float(DistanceYards(start, pin))
	s.DistanceYards = domain.Float(DistanceYards(start, end))

	endDistance := DistanceYards(end, pin)
	if math.IsNaN(endDistance) {
		endDistance = 0
	}
	s.EndDistanceYards = domain.Float(endDistance)
}

// CalculateDistances resolves end coordinates and computes every distance of
// every shot, then fills each hole's length from its first shot.
func CalculateDistances(shots []domain.ShotRecord) {
	for i := range shots {
		locateShot(&shots[i])
	}
	fillHoleYards(shots)
}

// fillHoleYards sets HoleYards on every shot to the start-to-pin distance of
// shot 1 of the same hole, or NaN when the hole has no shot 1.
func fillHoleYards(shots []domain.ShotRecord) {
	lengths := make(map[domain.HoleKey]domain.Float)
	for i := range shots {
		if shots[i].ShotID == 1 {
			lengths[shots[i].Hole()] = shots[i].StartDistanceYards
		}
	}
	for i := range shots {
		length, ok := lengths[shots[i].Hole()]
		if !ok {
			length = domain.Undefined()
		}
		shots[i].HoleYards = length
	}
}
