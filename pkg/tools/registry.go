// Package tools provides the trip-planning tools the agent exposes to the
// model: place search and route calculation.
package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wanderlabs/tripmcp/pkg/geo"
	"github.com/wanderlabs/tripmcp/pkg/llm"
	"github.com/wanderlabs/tripmcp/pkg/route"
	"github.com/wanderlabs/tripmcp/pkg/trip"
)

// Tool names dispatched by the registry.
const (
	ToolSearchPlaces   = "search_places"
	ToolCalculateRoute = "calculate_route"
)

// Result is the loosely-typed payload returned to the model for one tool
// call. It always contains either a success payload or an "error" key with
// a human-readable message.
type Result map[string]any

// Errorf builds an error Result.
func Errorf(format string, args ...any) Result {
	return Result{"error": fmt.Sprintf(format, args...)}
}

// IsError reports whether the result carries an error payload.
func (r Result) IsError() bool {
	_, ok := r["error"]
	return ok
}

// Session holds the mutable state of one planning session: the caller's
// origin and the stops collected by searches so far. It is owned by a
// single session and never shared across sessions.
type Session struct {
	Origin geo.Location
	Stops  []trip.Stop
}

// Registry declares the callable tools and dispatches named calls against
// per-session state. A registry itself is stateless across sessions and
// safe for concurrent use.
type Registry struct {
	logger    *slog.Logger
	optimizer *route.Optimizer
	search    *PlaceSearch
}

// NewRegistry creates a tool registry. The client issues the secondary
// place-search queries; the optimizer backs route calculation.
func NewRegistry(logger *slog.Logger, client llm.Client, optimizer *route.Optimizer) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger:    logger,
		optimizer: optimizer,
		search:    NewPlaceSearch(logger, client),
	}
}

// searchPlacesTool returns the tool definition for place search.
func searchPlacesTool() mcp.Tool {
	return mcp.NewTool(ToolSearchPlaces,
		mcp.WithDescription("Search for points of interest matching a query near a location"),
		mcp.WithString("query",
			mcp.Description("What to search for (e.g., specialty coffee shops, street art)"),
		),
		mcp.WithNumber("latitude",
			mcp.Description("Latitude to search around; defaults to the user's position"),
		),
		mcp.WithNumber("longitude",
			mcp.Description("Longitude to search around; defaults to the user's position"),
		),
		mcp.WithNumber("count",
			mcp.Description("Maximum number of places to return"),
			mcp.DefaultNumber(DefaultSearchCount),
		),
	)
}

// calculateRouteTool returns the tool definition for route optimization.
func calculateRouteTool() mcp.Tool {
	return mcp.NewTool(ToolCalculateRoute,
		mcp.WithDescription("Compute the optimal walking order, distance and time for the collected places"),
		mcp.WithArray("places",
			mcp.Description("Optional list of {name, latitude, longitude} objects; defaults to every place collected so far"),
		),
	)
}

// Declarations returns the tool schema advertised to the model.
func (r *Registry) Declarations() []llm.ToolDecl {
	defs := []mcp.Tool{searchPlacesTool(), calculateRouteTool()}
	decls := make([]llm.ToolDecl, 0, len(defs))
	for _, def := range defs {
		decls = append(decls, llm.ToolDecl{
			Name:        def.Name,
			Description: def.Description,
			Parameters: map[string]any{
				"type":       def.InputSchema.Type,
				"properties": def.InputSchema.Properties,
			},
		})
	}
	return decls
}

// Dispatch routes a named tool call to its handler. Unknown tool names
// yield an error Result rather than an error return, so the agent loop can
// feed the failure back to the model and continue.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any, sess *Session) Result {
	switch name {
	case ToolSearchPlaces:
		return r.handleSearchPlaces(ctx, args, sess)
	case ToolCalculateRoute:
		return r.handleCalculateRoute(args, sess)
	default:
		r.logger.Warn("model requested unknown tool", "name", name)
		return Errorf("Unknown tool: %s", name)
	}
}

// Argument parsing helpers. Tool arguments arrive as loosely-typed JSON
// values produced by the model; numbers decode as float64.

func stringArg(args map[string]any, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}

func floatArg(args map[string]any, key string, def float64) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}

func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}
