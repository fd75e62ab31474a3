package insights

import (
	"math"

	"github.com/tidwall/geodesic"
)

const (
	metresPerFoot = 0.3048
	feetPerYard   = 3
)

// Point is a WGS-84 latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

func (p Point) valid() bool {
	return !math.IsNaN(p.Lat) && !math.IsNaN(p.Lon) &&
		!math.IsInf(p.Lon, 0) && p.Lat >= -90 && p.Lat <= 90
}

// Bearing returns the initial great-circle bearing from a to b in degrees,
// normalized to [0, 360).
func Bearing(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return normalize360(math.Atan2(y, x) * 180 / math.Pi)
}

// DistanceYards returns the WGS-84 ellipsoidal geodesic distance between a
// and b in yards. Invalid coordinates yield NaN.
func DistanceYards(a, b Point) float64 {
	if !a.valid() || !b.valid() {
		return math.NaN()
	}
	// Solve in a fixed point order so the result is bit-for-bit symmetric.
	if b.Lat < a.Lat || (b.Lat == a.Lat && b.Lon < a.Lon) {
		a, b = b, a
	}
	var metres float64
	geodesic.WGS84.Inverse(a.Lat, a.Lon, b.Lat, b.Lon, &metres, nil, nil)
	return metres / metresPerFoot / feetPerYard
}

// normalize360 maps a bearing difference in (-360, 360) into [0, 360).
func normalize360(deg float64) float64 {
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg -= 360
	}
	return deg
}
