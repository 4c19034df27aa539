package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wanderlabs/tripmcp/pkg/llm"
	"github.com/wanderlabs/tripmcp/pkg/trip"
)

const (
	// DefaultSearchCount is the number of places returned when the model
	// omits the count argument.
	DefaultSearchCount = 5

	// defaultSearchQuery is used when the model omits the query argument.
	defaultSearchQuery = "interesting places"

	// searchCacheTTL bounds how long identical searches are served from cache.
	searchCacheTTL = 10 * time.Minute
)

// PlaceSearch finds candidate places by issuing a secondary, constrained
// model query and parsing the JSON array it returns. The query is separate
// from the agent's conversation and is never appended to its history.
type PlaceSearch struct {
	logger *slog.Logger
	client llm.Client
	cache  *ttlCache[string, []foundPlace]
}

// NewPlaceSearch creates a place search backed by the given client.
func NewPlaceSearch(logger *slog.Logger, client llm.Client) *PlaceSearch {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaceSearch{
		logger: logger.With("tool", ToolSearchPlaces),
		client: client,
		cache:  newTTLCache[string, []foundPlace](searchCacheTTL),
	}
}

// foundPlace is the shape each search result object must have.
type foundPlace struct {
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

// Search returns up to count places matching query near the given
// coordinates, as stops numbered from startIndex. Failures are recovered
// locally: a model error or malformed JSON yields an empty slice so the
// agent loop stays resilient.
func (s *PlaceSearch) Search(ctx context.Context, query string, lat, lng float64, count, startIndex int) []trip.Stop {
	key := fmt.Sprintf("%s|%.4f|%.4f|%d", strings.ToLower(query), lat, lng, count)
	places, ok := s.cache.Get(key)
	if !ok {
		places = s.queryModel(ctx, query, lat, lng, count)
		if len(places) > 0 {
			s.cache.Set(key, places)
		}
	}

	stops := make([]trip.Stop, 0, len(places))
	for i, p := range places {
		stops = append(stops, trip.Stop{
			Name:        p.Name,
			Latitude:    p.Latitude,
			Longitude:   p.Longitude,
			Description: p.Description,
			Category:    p.Category,
			OrderIndex:  startIndex + i,
		})
	}
	return stops
}

func (s *PlaceSearch) queryModel(ctx context.Context, query string, lat, lng float64, count int) []foundPlace {
	prompt := fmt.Sprintf(`List up to %d real places matching "%s" near latitude %.4f, longitude %.4f.

Respond with ONLY a JSON array, no other text. Each element must be an object with exactly these fields:
"name" (string), "latitude" (number), "longitude" (number), "description" (string, one sentence), "category" (string, e.g. cafe, museum, park).`,
		count, query, lat, lng)

	gen, err := s.client.Generate(ctx, []llm.Content{llm.NewUserText(prompt)}, nil)
	if err != nil {
		s.logger.Error("place search query failed", "query", query, "error", err)
		return nil
	}
	if gen.Content == nil {
		s.logger.Warn("place search returned no content", "query", query)
		return nil
	}

	raw := stripCodeFences(gen.Content.Text())
	var places []foundPlace
	if err := json.Unmarshal([]byte(raw), &places); err != nil {
		s.logger.Error("failed to parse place search response", "query", query, "error", err)
		return nil
	}

	if len(places) > count {
		places = places[:count]
	}
	return places
}

// stripCodeFences removes Markdown code-fence wrapping (```json ... ```)
// that models commonly add around JSON output.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// handleSearchPlaces implements the search_places tool. Missing coordinates
// fall back to the session origin; searches append to the session's
// collected stops with continuing order indices.
func (r *Registry) handleSearchPlaces(ctx context.Context, args map[string]any, sess *Session) Result {
	query := stringArg(args, "query", defaultSearchQuery)
	lat := floatArg(args, "latitude", sess.Origin.Latitude)
	lng := floatArg(args, "longitude", sess.Origin.Longitude)
	count := intArg(args, "count", DefaultSearchCount)
	if count <= 0 {
		count = DefaultSearchCount
	}

	stops := r.search.Search(ctx, query, lat, lng, count, len(sess.Stops))
	sess.Stops = append(sess.Stops, stops...)

	places := make([]map[string]any, 0, len(stops))
	for _, stop := range stops {
		places = append(places, map[string]any{
			"name":        stop.Name,
			"latitude":    stop.Latitude,
			"longitude":   stop.Longitude,
			"description": stop.Description,
			"category":    stop.Category,
		})
	}

	r.logger.Info("search_places completed", "query", query, "found", len(stops))
	return Result{"places": places, "count": len(stops)}
}
