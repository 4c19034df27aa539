// Package server provides the MCP server that exposes the trip-planning
// agent as a callable tool over stdio.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wanderlabs/tripmcp/pkg/geo"
	"github.com/wanderlabs/tripmcp/pkg/llm"
	"github.com/wanderlabs/tripmcp/pkg/planner"
	"github.com/wanderlabs/tripmcp/pkg/usage"
)

const (
	// ServerName is the name of the MCP server
	ServerName = "trip-planner-mcp-server"

	// ServerVersion is the version of the MCP server
	ServerVersion = "0.1.0"
)

// Options configures the server. Either Client or APIKey must be set;
// Client wins when both are present.
type Options struct {
	APIKey   string
	Client   llm.Client
	Recorder usage.Recorder
	Logger   *slog.Logger
}

// Server encapsulates the MCP server and the planning agent behind it.
type Server struct {
	srv   *server.MCPServer
	agent *planner.Agent
}

// NewServer creates a new trip-planner MCP server with the plan_trip tool
// registered.
func NewServer(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("initializing trip-planner MCP server",
		"name", ServerName,
		"version", ServerVersion)

	client := opts.Client
	if client == nil {
		if opts.APIKey == "" {
			return nil, fmt.Errorf("no LLM client and no API key configured")
		}
		client = llm.NewGeminiClient(opts.APIKey, llm.WithLogger(logger))
	}

	agent, err := planner.New(planner.Config{
		Client:   client,
		Recorder: opts.Recorder,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	srv := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &Server{srv: srv, agent: agent}
	srv.AddTool(planTripTool(), s.handlePlanTrip)

	return s, nil
}

// Run starts the MCP server using stdin/stdout for communication.
func (s *Server) Run() error {
	return server.ServeStdio(s.srv)
}

// planTripTool returns the tool definition for planning a trip.
func planTripTool() mcp.Tool {
	return mcp.NewTool("plan_trip",
		mcp.WithDescription("Plan a multi-stop walking itinerary for a goal near a location"),
		mcp.WithString("goal",
			mcp.Required(),
			mcp.Description("What the user wants to do (e.g., 'coffee tour', 'street art walk')"),
		),
		mcp.WithNumber("latitude",
			mcp.Required(),
			mcp.Description("The user's latitude"),
		),
		mcp.WithNumber("longitude",
			mcp.Required(),
			mcp.Description("The user's longitude"),
		),
	)
}

// handlePlanTrip runs one planning session to completion. Intermediate
// progress events are logged; the final plan is returned as JSON.
func (s *Server) handlePlanTrip(ctx context.Context, rawInput mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "plan_trip")

	goal := mcp.ParseString(rawInput, "goal", "")
	latitude := mcp.ParseFloat64(rawInput, "latitude", 0)
	longitude := mcp.ParseFloat64(rawInput, "longitude", 0)

	if goal == "" {
		return mcp.NewToolResultError("Goal must not be empty"), nil
	}
	if !geo.ValidLatitude(latitude) {
		return mcp.NewToolResultError("Latitude must be between -90 and 90"), nil
	}
	if !geo.ValidLongitude(longitude) {
		return mcp.NewToolResultError("Longitude must be between -180 and 180"), nil
	}

	for ev := range s.agent.Plan(ctx, goal, latitude, longitude) {
		switch ev.Type {
		case planner.EventComplete:
			resultBytes, err := json.Marshal(ev.Plan)
			if err != nil {
				logger.Error("failed to marshal plan", "error", err)
				return mcp.NewToolResultError("Failed to generate result"), nil
			}
			return mcp.NewToolResultText(string(resultBytes)), nil
		case planner.EventError:
			logger.Error("planning session failed", "session", ev.SessionID, "error", ev.Message)
			return mcp.NewToolResultError(ev.Message), nil
		default:
			logger.Info("planning progress",
				"session", ev.SessionID,
				"event", string(ev.Type),
				"tool", ev.Tool,
				"message", ev.Message)
		}
	}

	// The event channel closed without a terminal event: the context was
	// cancelled mid-session.
	return mcp.NewToolResultError("Planning was cancelled"), nil
}
