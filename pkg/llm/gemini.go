package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// GeminiBaseURL is the default Gemini REST endpoint.
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultGeminiModel is the model used when none is configured.
	DefaultGeminiModel = "gemini-2.0-flash"
)

// GeminiClient is a Client backed by the Gemini generateContent REST API.
// Requests are rate limited to stay within the public API quota.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	httpc   *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// GeminiOption customizes a GeminiClient.
type GeminiOption func(*GeminiClient)

// WithModel overrides the model name.
func WithModel(model string) GeminiOption {
	return func(c *GeminiClient) { c.model = model }
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) GeminiOption {
	return func(c *GeminiClient) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpc *http.Client) GeminiOption {
	return func(c *GeminiClient) { c.httpc = httpc }
}

// WithRateLimit overrides the request rate limit.
func WithRateLimit(rps float64, burst int) GeminiOption {
	return func(c *GeminiClient) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithLogger overrides the logger.
func WithLogger(logger *slog.Logger) GeminiOption {
	return func(c *GeminiClient) { c.logger = logger }
}

// NewGeminiClient creates a Gemini-backed completion client.
func NewGeminiClient(apiKey string, opts ...GeminiOption) *GeminiClient {
	c := &GeminiClient{
		apiKey:  apiKey,
		model:   DefaultGeminiModel,
		baseURL: GeminiBaseURL,
		httpc: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		// Free-tier quota is on the order of a request per second.
		limiter: rate.NewLimiter(rate.Limit(1), 2),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wire types for the generateContent request/response.

type geminiPart struct {
	Text             string                  `json:"text,omitempty"`
	FunctionCall     *geminiFunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *geminiFunctionResponse `json:"functionResponse,omitempty"`
}

type geminiFunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

type geminiFunctionResponse struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiFunctionDecl struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type geminiTool struct {
	FunctionDeclarations []geminiFunctionDecl `json:"functionDeclarations"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
	Tools    []geminiTool    `json:"tools,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// Generate implements Client. Failure modes are classified: HTTP errors
// surface as *APIError with a truncated body, connectivity failures as
// *NetworkError, everything else is returned as-is.
func (c *GeminiClient) Generate(ctx context.Context, contents []Content, tools []ToolDecl) (*Generation, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(buildGeminiRequest(contents, tools))
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("completion endpoint returned error",
			"status", resp.StatusCode,
			"model", c.model)
		return nil, NewAPIError(resp.StatusCode, string(body))
	}

	var wire geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return parseGeminiResponse(wire), nil
}

func buildGeminiRequest(contents []Content, tools []ToolDecl) geminiRequest {
	req := geminiRequest{Contents: make([]geminiContent, 0, len(contents))}
	for _, content := range contents {
		wc := geminiContent{Role: string(content.Role)}
		for _, part := range content.Parts {
			switch p := part.(type) {
			case TextPart:
				wc.Parts = append(wc.Parts, geminiPart{Text: p.Text})
			case FunctionCallPart:
				wc.Parts = append(wc.Parts, geminiPart{FunctionCall: &geminiFunctionCall{
					Name: p.Call.Name,
					Args: p.Call.Args,
				}})
			case FunctionResponsePart:
				wc.Parts = append(wc.Parts, geminiPart{FunctionResponse: &geminiFunctionResponse{
					Name:     p.Name,
					Response: p.Response,
				}})
			}
		}
		req.Contents = append(req.Contents, wc)
	}

	if len(tools) > 0 {
		decls := make([]geminiFunctionDecl, 0, len(tools))
		for _, tool := range tools {
			decls = append(decls, geminiFunctionDecl{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			})
		}
		req.Tools = []geminiTool{{FunctionDeclarations: decls}}
	}

	return req
}

func parseGeminiResponse(wire geminiResponse) *Generation {
	gen := &Generation{
		Usage: Usage{
			PromptTokens:   wire.UsageMetadata.PromptTokenCount,
			ResponseTokens: wire.UsageMetadata.CandidatesTokenCount,
			TotalTokens:    wire.UsageMetadata.TotalTokenCount,
		},
	}

	if len(wire.Candidates) == 0 {
		return gen
	}

	wc := wire.Candidates[0].Content
	content := Content{Role: RoleModel}
	if wc.Role != "" {
		content.Role = Role(wc.Role)
	}
	for _, part := range wc.Parts {
		switch {
		case part.FunctionCall != nil:
			content.Parts = append(content.Parts, FunctionCallPart{Call: FunctionCall{
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			}})
		case part.FunctionResponse != nil:
			content.Parts = append(content.Parts, FunctionResponsePart{
				Name:     part.FunctionResponse.Name,
				Response: part.FunctionResponse.Response,
			})
		default:
			content.Parts = append(content.Parts, TextPart{Text: part.Text})
		}
	}
	gen.Content = &content
	return gen
}
