package llm

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestBuildGeminiRequest(t *testing.T) {
	contents := []Content{
		NewUserText("plan a coffee tour"),
		{Role: RoleModel, Parts: []Part{FunctionCallPart{Call: FunctionCall{
			Name: "search_places",
			Args: map[string]any{"query": "coffee"},
		}}}},
		NewFunctionResponse("search_places", map[string]any{"count": 2}),
	}
	tools := []ToolDecl{{
		Name:        "search_places",
		Description: "Search for places",
		Parameters:  map[string]any{"type": "object"},
	}}

	req := buildGeminiRequest(contents, tools)

	if len(req.Contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(req.Contents))
	}
	if req.Contents[0].Role != "user" || req.Contents[0].Parts[0].Text != "plan a coffee tour" {
		t.Errorf("user turn not converted: %+v", req.Contents[0])
	}
	if fc := req.Contents[1].Parts[0].FunctionCall; fc == nil || fc.Name != "search_places" {
		t.Errorf("function call not converted: %+v", req.Contents[1])
	}
	if fr := req.Contents[2].Parts[0].FunctionResponse; fr == nil || fr.Response["count"] != 2 {
		t.Errorf("function response not converted: %+v", req.Contents[2])
	}
	if len(req.Tools) != 1 || len(req.Tools[0].FunctionDeclarations) != 1 {
		t.Errorf("tool declarations not converted: %+v", req.Tools)
	}
}

func TestParseGeminiResponse(t *testing.T) {
	raw := `{
		"candidates": [{
			"content": {
				"role": "model",
				"parts": [
					{"functionCall": {"name": "calculate_route", "args": {}}},
					{"text": "ignored trailing text"}
				]
			}
		}],
		"usageMetadata": {"promptTokenCount": 10, "candidatesTokenCount": 4, "totalTokenCount": 14}
	}`

	var wire geminiResponse
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}

	gen := parseGeminiResponse(wire)
	if gen.Content == nil {
		t.Fatal("expected content")
	}
	if gen.Content.Role != RoleModel {
		t.Errorf("role = %q, expected model", gen.Content.Role)
	}
	call, ok := gen.Content.FirstFunctionCall()
	if !ok || call.Name != "calculate_route" {
		t.Errorf("FirstFunctionCall = %+v, ok=%v", call, ok)
	}
	if gen.Usage.TotalTokens != 14 || gen.Usage.PromptTokens != 10 || gen.Usage.ResponseTokens != 4 {
		t.Errorf("usage not parsed: %+v", gen.Usage)
	}
}

func TestParseGeminiResponseNoCandidates(t *testing.T) {
	gen := parseGeminiResponse(geminiResponse{})
	if gen.Content != nil {
		t.Errorf("expected nil content for empty response, got %+v", gen.Content)
	}
}

func TestDescribeError(t *testing.T) {
	apiErr := NewAPIError(429, strings.Repeat("x", 500))
	if len(apiErr.Body) != 200 {
		t.Errorf("body not truncated: %d chars", len(apiErr.Body))
	}
	msg := DescribeError(apiErr)
	if !strings.HasPrefix(msg, "LLM API error (429)") {
		t.Errorf("unexpected API error message: %q", msg)
	}

	netMsg := DescribeError(&NetworkError{Err: errString("connection refused")})
	if !strings.Contains(netMsg, "network error") {
		t.Errorf("unexpected network error message: %q", netMsg)
	}

	other := DescribeError(errString(strings.Repeat("y", 500)))
	if len(other) > 200 {
		t.Errorf("unknown error message not bounded: %d chars", len(other))
	}
	if !strings.HasPrefix(other, "unexpected error") {
		t.Errorf("unexpected catch-all message: %q", other)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
