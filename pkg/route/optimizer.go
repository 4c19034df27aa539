// Package route provides walking-route optimization over small sets of
// geographic points.
package route

import (
	"github.com/wanderlabs/tripmcp/pkg/geo"
)

const (
	// DefaultWalkingSpeedKmh is the assumed average walking speed.
	DefaultWalkingSpeedKmh = 5.0

	// DefaultBruteForceLimit is the largest input size for which the
	// optimizer searches all orderings. Factorial growth makes exhaustive
	// search unsafe beyond a handful of points, so larger inputs fall back
	// to a nearest-neighbor heuristic.
	DefaultBruteForceLimit = 8
)

// Config holds tunable optimizer parameters. The zero value is usable;
// missing fields are replaced with defaults.
type Config struct {
	WalkingSpeedKmh float64
	BruteForceLimit int
}

func (c Config) withDefaults() Config {
	if c.WalkingSpeedKmh <= 0 {
		c.WalkingSpeedKmh = DefaultWalkingSpeedKmh
	}
	if c.BruteForceLimit <= 0 {
		c.BruteForceLimit = DefaultBruteForceLimit
	}
	return c
}

// Result describes an optimized visiting order. OrderedIndices is always a
// permutation of 0..n-1 where n is the number of input points.
type Result struct {
	OrderedIndices      []int   `json:"ordered_indices"`
	TotalDistanceKm     float64 `json:"total_distance_km"`
	TotalWalkingMinutes float64 `json:"total_walking_minutes"`
}

// Optimizer finds visiting orders minimizing total path length. It is
// stateless and safe for concurrent use.
type Optimizer struct {
	cfg Config
}

// NewOptimizer creates an optimizer with the given configuration.
func NewOptimizer(cfg Config) *Optimizer {
	return &Optimizer{cfg: cfg.withDefaults()}
}

// FindOptimalRoute returns the visiting order of points minimizing the
// cumulative great-circle distance between consecutive points. For inputs
// up to the configured brute-force limit the search is exhaustive and the
// result is optimal; ties are broken by the first ordering found, which is
// deterministic (lexicographic enumeration). Larger inputs use a greedy
// nearest-neighbor heuristic starting from the first point.
func (o *Optimizer) FindOptimalRoute(points []geo.Location) Result {
	n := len(points)
	if n <= 1 {
		order := make([]int, n)
		return Result{OrderedIndices: order}
	}

	var order []int
	if n <= o.cfg.BruteForceLimit {
		order = bestPermutation(points)
	} else {
		order = nearestNeighbor(points)
	}

	dist := orderedDistanceKm(points, order)
	return Result{
		OrderedIndices:      order,
		TotalDistanceKm:     dist,
		TotalWalkingMinutes: o.WalkingMinutes(dist),
	}
}

// WalkingMinutes estimates the time to walk the given distance at the
// configured average speed.
func (o *Optimizer) WalkingMinutes(distanceKm float64) float64 {
	return distanceKm / o.cfg.WalkingSpeedKmh * 60
}

// PathDistanceKm returns the cumulative great-circle distance along the
// points in the order given. It is a pure function: identical inputs yield
// identical outputs.
func PathDistanceKm(points []geo.Location) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += points[i-1].DistanceKm(points[i])
	}
	return total
}

// bestPermutation exhaustively enumerates visiting orders in lexicographic
// order and returns the first one with minimal path length.
func bestPermutation(points []geo.Location) []int {
	n := len(points)
	current := make([]int, 0, n)
	used := make([]bool, n)
	best := make([]int, 0, n)
	bestDist := -1.0

	var walk func(soFar float64)
	walk = func(soFar float64) {
		if bestDist >= 0 && soFar >= bestDist {
			return // prune: partial path already at least as long as the best
		}
		if len(current) == n {
			best = append(best[:0], current...)
			bestDist = soFar
			return
		}
		for i := 0; i < n; i++ {
			if used[i] {
				continue
			}
			step := 0.0
			if len(current) > 0 {
				step = points[current[len(current)-1]].DistanceKm(points[i])
			}
			used[i] = true
			current = append(current, i)
			walk(soFar + step)
			current = current[:len(current)-1]
			used[i] = false
		}
	}
	walk(0)

	return best
}

// nearestNeighbor greedily visits the closest unvisited point, starting
// from the first input point.
func nearestNeighbor(points []geo.Location) []int {
	n := len(points)
	order := make([]int, 0, n)
	visited := make([]bool, n)

	at := 0
	order = append(order, at)
	visited[at] = true

	for len(order) < n {
		next := -1
		nextDist := 0.0
		for i := 0; i < n; i++ {
			if visited[i] {
				continue
			}
			d := points[at].DistanceKm(points[i])
			if next < 0 || d < nextDist {
				next = i
				nextDist = d
			}
		}
		order = append(order, next)
		visited[next] = true
		at = next
	}

	return order
}

// orderedDistanceKm computes the path length of points visited in the given order.
func orderedDistanceKm(points []geo.Location, order []int) float64 {
	path := make([]geo.Location, len(order))
	for i, idx := range order {
		path[i] = points[idx]
	}
	return PathDistanceKm(path)
}
