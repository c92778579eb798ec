package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used for great-circle math.
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance between two points in meters,
// computed with the haversine formula. Symmetric and zero for identical points.
func Distance(a, b Point) float64 {
	latA := a.Latitude * math.Pi / 180
	latB := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(latA)*math.Cos(latB)*sinLon*sinLon

	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}
