package server

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wanderlabs/tripmcp/pkg/llm"
	"github.com/wanderlabs/tripmcp/pkg/testutil"
)

// finalAnswerClient always replies with a plain-text summary.
type finalAnswerClient struct{}

func (finalAnswerClient) Generate(ctx context.Context, contents []llm.Content, tools []llm.ToolDecl) (*llm.Generation, error) {
	content := llm.Content{Role: llm.RoleModel, Parts: []llm.Part{llm.TextPart{Text: "A short stroll."}}}
	return &llm.Generation{Content: &content}, nil
}

func TestNewServer(t *testing.T) {
	s, err := NewServer(Options{Client: finalAnswerClient{}, Logger: testutil.DiscardLogger()})
	if err != nil {
		t.Errorf("NewServer() error = %v", err)
	}
	if s == nil {
		t.Error("NewServer() returned nil server")
	}
}

func TestNewServerRequiresClientOrKey(t *testing.T) {
	if _, err := NewServer(Options{Logger: testutil.DiscardLogger()}); err == nil {
		t.Error("expected error without client or API key")
	}
}

func TestHandlePlanTrip(t *testing.T) {
	s, err := NewServer(Options{Client: finalAnswerClient{}, Logger: testutil.DiscardLogger()})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = "plan_trip"
	req.Params.Arguments = map[string]any{
		"goal":      "coffee tour",
		"latitude":  59.3293,
		"longitude": 18.0686,
	}

	res, err := s.handlePlanTrip(context.Background(), req)
	if err != nil {
		t.Fatalf("handlePlanTrip() error = %v", err)
	}
	if res.IsError {
		t.Fatalf("handlePlanTrip() returned error result: %+v", res)
	}

	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type: %T", res.Content[0])
	}
	if !strings.Contains(text.Text, "A short stroll.") {
		t.Errorf("result does not carry the summary: %s", text.Text)
	}
}

func TestHandlePlanTripValidation(t *testing.T) {
	s, err := NewServer(Options{Client: finalAnswerClient{}, Logger: testutil.DiscardLogger()})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	tests := []struct {
		name string
		args map[string]any
	}{
		{name: "missing goal", args: map[string]any{"latitude": 1.0, "longitude": 1.0}},
		{name: "bad latitude", args: map[string]any{"goal": "walk", "latitude": 91.0, "longitude": 1.0}},
		{name: "bad longitude", args: map[string]any{"goal": "walk", "latitude": 1.0, "longitude": 181.0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := mcp.CallToolRequest{}
			req.Params.Name = "plan_trip"
			req.Params.Arguments = tc.args

			res, err := s.handlePlanTrip(context.Background(), req)
			if err != nil {
				t.Fatalf("handlePlanTrip() error = %v", err)
			}
			if !res.IsError {
				t.Error("expected an error result")
			}
		})
	}
}
