// Package geo holds the spherical distance helpers used for marker matching
// and the "distance to our development" display.
package geo

import "math"

// EarthRadiusKM is the mean Earth radius used by DistanceKM.
const EarthRadiusKM = 6371.0088

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ReferencePoint is the fixed anchor development every distance is measured to.
type ReferencePoint struct {
	Name  string `json:"name"`
	Point Point  `json:"point"`
}

// DistanceKM returns the great-circle distance between two points using the
// haversine formula.
func DistanceKM(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := toRadians(lat1)
	p2 := toRadians(lat2)
	dLat := p2 - p1
	dLon := toRadians(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(p1)*math.Cos(p2)*sinLon*sinLon

	return EarthRadiusKM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// DistanceTo returns the distance in kilometers from p to other.
func (p Point) DistanceTo(other Point) float64 {
	return DistanceKM(p.Lat, p.Lon, other.Lat, other.Lon)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
