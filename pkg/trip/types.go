// Package trip defines the core itinerary data model shared by the
// planning agent and its tools.
package trip

import "github.com/wanderlabs/tripmcp/pkg/geo"

// Stop represents one point of interest in a generated itinerary.
// OrderIndex is the 0-based position in the final visiting order. It is
// provisional (insertion order) until a route calculation reassigns it.
type Stop struct {
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	OrderIndex  int     `json:"order_index"`
}

// Location returns the stop's coordinates as a geo.Location.
func (s Stop) Location() geo.Location {
	return geo.Location{Latitude: s.Latitude, Longitude: s.Longitude}
}

// Plan is the terminal artifact of one planning session. Stops are sorted
// ascending by OrderIndex with contiguous values starting at 0.
type Plan struct {
	Summary             string  `json:"summary"`
	Stops               []Stop  `json:"stops"`
	TotalDistanceKm     float64 `json:"total_distance_km"`
	TotalWalkingMinutes float64 `json:"total_walking_minutes"`
}

// Locations extracts the coordinates of the given stops in slice order.
func Locations(stops []Stop) []geo.Location {
	locs := make([]geo.Location, 0, len(stops))
	for _, s := range stops {
		locs = append(locs, s.Location())
	}
	return locs
}
