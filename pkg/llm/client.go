package llm

import "context"

// ToolDecl declares one callable tool to the model. Parameters is a JSON
// Schema object describing the arguments.
type ToolDecl struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Usage carries token counts reported by the model for one completion.
type Usage struct {
	PromptTokens   int
	ResponseTokens int
	TotalTokens    int
}

// Generation is the outcome of one completion call. Content is nil when the
// model returned no candidates at all.
type Generation struct {
	Content *Content
	Usage   Usage
}

// Client is the LLM completion collaborator. Implementations must be safe
// for concurrent use; each call is independent of any prior call.
type Client interface {
	Generate(ctx context.Context, contents []Content, tools []ToolDecl) (*Generation, error)
}
