package geo

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	// Test cases with known distances
	tests := []struct {
		lat1      float64
		lng1      float64
		lat2      float64
		lng2      float64
		expected  float64
		name      string
		tolerance float64 // Relative tolerance (e.g., 0.001 for 0.1%)
	}{
		{
			name:      "Same point",
			lat1:      59.3293,
			lng1:      18.0686,
			lat2:      59.3293,
			lng2:      18.0686,
			expected:  0,
			tolerance: 0.0001, // 0.01% for zero case
		},
		{
			name:      "Short distance - SF downtown to Market St",
			lat1:      37.7749,
			lng1:      -122.4194,
			lat2:      37.7734,
			lng2:      -122.4167,
			expected:  0.29006, // From GeographicLib
			tolerance: 0.001,   // 0.1% relative tolerance
		},
		{
			name:      "Medium distance - SF to Oakland",
			lat1:      37.7749,
			lng1:      -122.4194,
			lat2:      37.8044,
			lng2:      -122.2712,
			expected:  13.42963, // From GeographicLib
			tolerance: 0.001,
		},
		{
			name:      "Long distance - SF to NYC",
			lat1:      37.7749,
			lng1:      -122.4194,
			lat2:      40.7128,
			lng2:      -74.0060,
			expected:  4129.93681, // ~4130 km
			tolerance: 0.001,
		},
		{
			name:      "Antipodal points",
			lat1:      37.7749,
			lng1:      -122.4194,
			lat2:      -37.7749,
			lng2:      57.5806,   // Opposite side of Earth
			expected:  20015.086, // ~20,015 km (approx Earth circumference / 2)
			tolerance: 0.001,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := HaversineKm(tc.lat1, tc.lng1, tc.lat2, tc.lng2)

			// Use relative tolerance for non-zero distances
			var difference float64
			if tc.expected == 0 {
				difference = math.Abs(result)
			} else {
				difference = math.Abs(result-tc.expected) / tc.expected
			}

			if difference > tc.tolerance {
				t.Errorf("HaversineKm(%f, %f, %f, %f) = %f, expected %f ± %.1f%%",
					tc.lat1, tc.lng1, tc.lat2, tc.lng2, result, tc.expected, tc.tolerance*100)
			}
		})
	}
}

func TestLocationDistanceKm(t *testing.T) {
	a := Location{Latitude: 59.3293, Longitude: 18.0686}
	b := Location{Latitude: 59.3400, Longitude: 18.0700}

	if got, want := a.DistanceKm(b), HaversineKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude); got != want {
		t.Errorf("DistanceKm = %f, expected %f", got, want)
	}
	if a.DistanceKm(a) != 0 {
		t.Errorf("DistanceKm to self = %f, expected 0", a.DistanceKm(a))
	}
}

func TestValidation(t *testing.T) {
	if !ValidLatitude(90) || !ValidLatitude(-90) || ValidLatitude(90.01) || ValidLatitude(-91) {
		t.Error("ValidLatitude boundary checks failed")
	}
	if !ValidLongitude(180) || !ValidLongitude(-180) || ValidLongitude(180.5) || ValidLongitude(-181) {
		t.Error("ValidLongitude boundary checks failed")
	}
}
