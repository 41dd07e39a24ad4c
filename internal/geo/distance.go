package geo

import (
	"math"
	"strconv"

	"courier-dispatch/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used by DistanceKm.
const EarthRadiusKm = 6371.0

// DistanceKm returns the haversine great-circle distance in kilometres.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}
	phi1 := toRad(lat1)
	phi2 := toRad(lat2)
	dPhi := toRad(lat2 - lat1)
	dLambda := toRad(lon2 - lon1)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	// rounding can push a slightly outside [0,1] near antipodes
	a = math.Min(1, math.Max(0, a))

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

// Between is DistanceKm for domain locations.
func Between(a, b domain.Location) float64 {
	return DistanceKm(a.Lat, a.Lon, b.Lat, b.Lon)
}

// FormatKm renders a distance for humans: one decimal and the unit, e.g. "2.0 km".
func FormatKm(km float64) string {
	return strconv.FormatFloat(km, 'f', 1, 64) + " km"
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
