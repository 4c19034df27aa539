// Package planner implements the agentic trip-planning loop: it drives the
// language model through rounds of reasoning and tool calls until a final
// itinerary is produced, reporting progress as a stream of events.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/wanderlabs/tripmcp/pkg/geo"
	"github.com/wanderlabs/tripmcp/pkg/llm"
	"github.com/wanderlabs/tripmcp/pkg/route"
	"github.com/wanderlabs/tripmcp/pkg/tools"
	"github.com/wanderlabs/tripmcp/pkg/trip"
	"github.com/wanderlabs/tripmcp/pkg/usage"
)

const (
	// DefaultMaxIterations bounds the ReAct loop.
	DefaultMaxIterations = 10

	// DefaultFeatureTag labels usage records from this agent.
	DefaultFeatureTag = "trip_planner"
)

// ErrIterationsExhausted is the terminal failure when the loop completes
// every iteration without the model producing a final answer.
var ErrIterationsExhausted = errors.New("reached maximum iterations without completing")

// Config holds the agent's collaborators and tunables. Client is required;
// everything else has a usable default.
type Config struct {
	// Client is the completion endpoint driving the main conversation.
	Client llm.Client

	// SearchClient issues the secondary place-search queries. Defaults to
	// Client.
	SearchClient llm.Client

	// Recorder receives token-usage telemetry. Defaults to a no-op.
	Recorder usage.Recorder

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Optimizer backs route calculation and the plan-assembly fallback.
	Optimizer *route.Optimizer

	// MaxIterations bounds the loop; defaults to DefaultMaxIterations.
	MaxIterations int

	// FeatureTag labels usage records; defaults to DefaultFeatureTag.
	FeatureTag string
}

func (c Config) withDefaults() Config {
	if c.SearchClient == nil {
		c.SearchClient = c.Client
	}
	if c.Recorder == nil {
		c.Recorder = usage.NopRecorder{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Optimizer == nil {
		c.Optimizer = route.NewOptimizer(route.Config{})
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.FeatureTag == "" {
		c.FeatureTag = DefaultFeatureTag
	}
	return c
}

// Agent plans walking itineraries. It is stateless across sessions and safe
// for concurrent use; all per-session state lives in the Plan call.
type Agent struct {
	cfg      Config
	registry *tools.Registry
}

// New creates an agent from the given configuration.
func New(cfg Config) (*Agent, error) {
	if cfg.Client == nil {
		return nil, errors.New("planner: Config.Client is required")
	}
	cfg = cfg.withDefaults()
	return &Agent{
		cfg:      cfg,
		registry: tools.NewRegistry(cfg.Logger, cfg.SearchClient, cfg.Optimizer),
	}, nil
}

// Plan runs one planning session for the goal at the given origin and
// returns its event sequence. The channel is unbuffered, so the agent never
// runs ahead of the consumer; cancelling ctx stops the session before the
// next model call and closes the channel. The final event is always exactly
// one of Complete or Error.
func (a *Agent) Plan(ctx context.Context, goal string, lat, lng float64) <-chan Event {
	events := make(chan Event)
	go func() {
		defer close(events)
		a.run(ctx, goal, lat, lng, events)
	}()
	return events
}

func (a *Agent) run(ctx context.Context, goal string, lat, lng float64, events chan<- Event) {
	sessionID := uuid.NewString()
	logger := a.cfg.Logger.With("session", sessionID)

	emit := func(ev Event) bool {
		if ctx.Err() != nil {
			return false
		}
		ev.SessionID = sessionID
		select {
		case <-ctx.Done():
			return false
		case events <- ev:
			return true
		}
	}

	sess := &tools.Session{Origin: geo.Location{Latitude: lat, Longitude: lng}}
	history := []llm.Content{llm.NewUserText(systemPrompt(goal, lat, lng))}
	decls := a.registry.Declarations()

	if !emit(Event{Type: EventThinking, Message: "Understanding your request..."}) {
		return
	}

	var lastRoute *route.Result
	for i := 0; i < a.cfg.MaxIterations; i++ {
		// The consumer may have gone away; never issue another model call
		// after cancellation.
		if ctx.Err() != nil {
			return
		}

		gen, err := a.cfg.Client.Generate(ctx, history, decls)
		if err != nil {
			logger.Error("model call failed", "iteration", i, "error", err)
			emit(Event{Type: EventError, Message: llm.DescribeError(err)})
			return
		}

		a.record(logger, gen.Usage)

		if gen.Content == nil {
			logger.Warn("model returned no content", "iteration", i)
			break
		}
		history = append(history, *gen.Content)

		call, hasCall := gen.Content.FirstFunctionCall()
		if !hasCall {
			plan := a.assemblePlan(gen.Content.Text(), sess, lastRoute)
			logger.Info("plan complete", "stops", len(plan.Stops), "distance_km", plan.TotalDistanceKm)
			emit(Event{Type: EventComplete, Plan: plan})
			return
		}

		if !emit(Event{Type: EventToolCalling, Tool: call.Name, Message: callSummary(call)}) {
			return
		}

		result := a.registry.Dispatch(ctx, call.Name, call.Args, sess)
		if call.Name == tools.ToolCalculateRoute && !result.IsError() {
			if rr, ok := routeFromResult(result); ok {
				lastRoute = &rr
			}
		}
		history = append(history, llm.NewFunctionResponse(call.Name, result))

		if !emit(Event{Type: EventToolResult, Tool: call.Name, Message: resultSummary(call.Name, result)}) {
			return
		}
		if !emit(Event{Type: EventThinking, Message: "Analyzing results..."}) {
			return
		}
	}

	logger.Warn("iteration budget exhausted", "max", a.cfg.MaxIterations)
	emit(Event{Type: EventError, Message: ErrIterationsExhausted.Error()})
}

// record forwards usage telemetry, shielding the loop from a misbehaving
// recorder.
func (a *Agent) record(logger *slog.Logger, u llm.Usage) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("usage recorder panicked", "panic", r)
		}
	}()
	a.cfg.Recorder.Record(a.cfg.FeatureTag, u)
}

// assemblePlan builds the terminal plan: stops sorted by order index and
// renumbered contiguously. Distance and time come from the most recent
// successful route calculation; without one, both are computed over the
// stops in their current order, not re-optimized.
func (a *Agent) assemblePlan(summary string, sess *tools.Session, lastRoute *route.Result) *trip.Plan {
	stops := make([]trip.Stop, len(sess.Stops))
	copy(stops, sess.Stops)
	sort.SliceStable(stops, func(i, j int) bool { return stops[i].OrderIndex < stops[j].OrderIndex })
	for i := range stops {
		stops[i].OrderIndex = i
	}

	plan := &trip.Plan{Summary: summary, Stops: stops}
	if lastRoute != nil {
		plan.TotalDistanceKm = lastRoute.TotalDistanceKm
		plan.TotalWalkingMinutes = lastRoute.TotalWalkingMinutes
	} else {
		dist := route.PathDistanceKm(trip.Locations(stops))
		plan.TotalDistanceKm = dist
		plan.TotalWalkingMinutes = a.cfg.Optimizer.WalkingMinutes(dist)
	}
	return plan
}

// routeFromResult extracts the distance and time a calculate_route call
// reported, for later use during plan assembly.
func routeFromResult(result tools.Result) (route.Result, bool) {
	dist, ok := result["total_distance_km"].(float64)
	if !ok {
		return route.Result{}, false
	}
	mins, _ := result["total_walking_minutes"].(float64)
	rr := route.Result{TotalDistanceKm: dist, TotalWalkingMinutes: mins}
	if idx, ok := result["ordered_indices"].([]int); ok {
		rr.OrderedIndices = idx
	}
	return rr, true
}

func callSummary(call llm.FunctionCall) string {
	switch call.Name {
	case tools.ToolSearchPlaces:
		if q, ok := call.Args["query"].(string); ok && q != "" {
			return fmt.Sprintf("Searching for %s...", q)
		}
		return "Searching for places..."
	case tools.ToolCalculateRoute:
		return "Optimizing your route..."
	default:
		return fmt.Sprintf("Running %s...", call.Name)
	}
}

func resultSummary(name string, result tools.Result) string {
	if msg, ok := result["error"].(string); ok {
		return msg
	}
	switch name {
	case tools.ToolSearchPlaces:
		if n, ok := result["count"].(int); ok {
			return fmt.Sprintf("Found %d places", n)
		}
	case tools.ToolCalculateRoute:
		dist, _ := result["total_distance_km"].(float64)
		mins, _ := result["total_walking_minutes"].(float64)
		return fmt.Sprintf("Route: %.1f km, about %.0f min on foot", dist, mins)
	}
	return "Done"
}
