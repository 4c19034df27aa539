// Package geo provides common geographic types and calculations.
// It centralizes location-based data structures and algorithms to ensure
// consistency across the codebase.
package geo

import "math"

// EarthRadiusKm is the mean radius of Earth in kilometers
const EarthRadiusKm = 6371.0

// Location represents a geographic coordinate (latitude and longitude)
// with standardized JSON field names.
//
// Example:
//
//	loc := geo.Location{Latitude: 59.3293, Longitude: 18.0686}
//	dist := geo.HaversineKm(loc.Latitude, loc.Longitude, 59.3400, 18.0700)
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceKm returns the great-circle distance to another location in kilometers.
func (l Location) DistanceKm(other Location) float64 {
	return HaversineKm(l.Latitude, l.Longitude, other.Latitude, other.Longitude)
}

// ValidLatitude reports whether lat is within the valid range of -90 to 90 degrees.
func ValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidLongitude reports whether lng is within the valid range of -180 to 180 degrees.
func ValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}

// HaversineKm calculates the great-circle distance between two points
// on the Earth's surface given their latitude and longitude in degrees.
// The result is returned in kilometers. Out-of-range inputs propagate
// as NaN; callers are responsible for validation.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	// Convert degrees to radians
	lat1Rad := lat1 * math.Pi / 180.0
	lng1Rad := lng1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0
	lng2Rad := lng2 * math.Pi / 180.0

	// Haversine formula
	dlat := lat2Rad - lat1Rad
	dlng := lng2Rad - lng1Rad
	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dlng/2)*math.Sin(dlng/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return EarthRadiusKm * c
}
