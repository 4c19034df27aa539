package planner

import "github.com/wanderlabs/tripmcp/pkg/trip"

// EventType tags the variants of a planning progress event.
type EventType string

const (
	// EventThinking reports that the agent is reasoning between actions.
	EventThinking EventType = "thinking"
	// EventToolCalling reports that a tool is about to run.
	EventToolCalling EventType = "tool_calling"
	// EventToolResult reports that a tool finished.
	EventToolResult EventType = "tool_result"
	// EventComplete carries the finished plan. Terminal.
	EventComplete EventType = "complete"
	// EventError carries a failure message. Terminal.
	EventError EventType = "error"
)

// Event is one entry in the forward-only progress sequence of a planning
// session. The last event of any session is exactly one of Complete or
// Error; nothing is emitted after either.
type Event struct {
	Type      EventType  `json:"type"`
	SessionID string     `json:"session_id"`
	Message   string     `json:"message,omitempty"`
	Tool      string     `json:"tool,omitempty"`
	Plan      *trip.Plan `json:"plan,omitempty"`
}
