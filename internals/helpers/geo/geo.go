// file: internals/helpers/geo/geo.go
// Package geo holds the great-circle math used by the presence validation.
package geo

import "math"

// EarthRadiusM is the mean earth radius of the spherical approximation.
const EarthRadiusM = 6371000.0

// DistanceMeters returns the haversine distance in meters between two
// coordinates given in decimal degrees. Pure and total: no error cases,
// output is always >= 0, and DistanceMeters(a, b) == DistanceMeters(b, a).
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := toRad(lat1)
	phi2 := toRad(lat2)
	dPhi := toRad(lat2 - lat1)
	dLambda := toRad(lng2 - lng1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusM * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
