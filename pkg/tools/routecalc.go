package tools

import (
	"math"

	"github.com/wanderlabs/tripmcp/pkg/geo"
	"github.com/wanderlabs/tripmcp/pkg/trip"
)

// handleCalculateRoute implements the calculate_route tool. If the model
// supplied an explicit places list those coordinates are used; otherwise
// the route is computed over every stop collected in the session, and the
// session stops are reordered to match the optimal visiting order.
func (r *Registry) handleCalculateRoute(args map[string]any, sess *Session) Result {
	points, names, explicit := placesFromArgs(args)
	if len(points) == 0 {
		explicit = false
	}
	if !explicit {
		points = trip.Locations(sess.Stops)
		names = make([]string, 0, len(sess.Stops))
		for _, stop := range sess.Stops {
			names = append(names, stop.Name)
		}
	}

	if len(points) == 0 {
		return Errorf("No places to calculate route for")
	}

	res := r.optimizer.FindOptimalRoute(points)

	if !explicit {
		// The optimizer's indices correspond to the session stops, so the
		// provisional order indices can be reassigned in place.
		for rank, idx := range res.OrderedIndices {
			sess.Stops[idx].OrderIndex = rank
		}
	}

	ordered := make([]string, 0, len(res.OrderedIndices))
	for _, idx := range res.OrderedIndices {
		if idx < len(names) {
			ordered = append(ordered, names[idx])
		}
	}

	r.logger.Info("calculate_route completed",
		"places", len(points),
		"distance_km", res.TotalDistanceKm)

	return Result{
		"ordered_indices":       res.OrderedIndices,
		"ordered_names":         ordered,
		"total_distance_km":     round2(res.TotalDistanceKm),
		"total_walking_minutes": math.Round(res.TotalWalkingMinutes),
	}
}

// placesFromArgs extracts coordinates from an explicit places argument.
// Both latitude/longitude and lat/lng key spellings are accepted.
func placesFromArgs(args map[string]any) ([]geo.Location, []string, bool) {
	raw, ok := args["places"].([]any)
	if !ok {
		return nil, nil, false
	}

	points := make([]geo.Location, 0, len(raw))
	names := make([]string, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		lat := floatArg(m, "latitude", floatArg(m, "lat", math.NaN()))
		lng := floatArg(m, "longitude", floatArg(m, "lng", math.NaN()))
		if math.IsNaN(lat) || math.IsNaN(lng) {
			continue
		}
		if !geo.ValidLatitude(lat) || !geo.ValidLongitude(lng) {
			continue
		}
		points = append(points, geo.Location{Latitude: lat, Longitude: lng})
		names = append(names, stringArg(m, "name", ""))
	}
	return points, names, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
