// Package llm defines the boundary to the language-model collaborator:
// the conversation content model, the completion client interface, and a
// concrete Gemini REST implementation.
package llm

import "strings"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser     Role = "user"
	RoleModel    Role = "model"
	RoleFunction Role = "function"
)

// Content holds one conversation turn: a role plus ordered parts.
type Content struct {
	Role  Role
	Parts []Part
}

// Part is a polymorphic segment of turn content. Exactly one concrete
// variant is populated per part; the unexported marker keeps the set closed.
type Part interface{ isPart() }

// TextPart is a plain text segment.
type TextPart struct {
	Text string
}

func (TextPart) isPart() {}

// FunctionCall is a structured request from the model to invoke a named
// tool. Args values are loosely typed JSON values.
type FunctionCall struct {
	Name string
	Args map[string]any
}

// FunctionCallPart wraps a FunctionCall as a content part.
type FunctionCallPart struct {
	Call FunctionCall
}

func (FunctionCallPart) isPart() {}

// FunctionResponsePart carries a tool result back to the model.
type FunctionResponsePart struct {
	Name     string
	Response map[string]any
}

func (FunctionResponsePart) isPart() {}

// NewUserText builds a user turn with a single text part.
func NewUserText(text string) Content {
	return Content{Role: RoleUser, Parts: []Part{TextPart{Text: text}}}
}

// NewFunctionResponse builds a function-role turn carrying a tool result.
func NewFunctionResponse(name string, response map[string]any) Content {
	return Content{Role: RoleFunction, Parts: []Part{FunctionResponsePart{Name: name, Response: response}}}
}

// Text concatenates all text parts of the turn.
func (c Content) Text() string {
	var b strings.Builder
	for _, p := range c.Parts {
		if tp, ok := p.(TextPart); ok {
			b.WriteString(tp.Text)
		}
	}
	return b.String()
}

// FirstFunctionCall returns the first function call in the turn, if any.
// Known limitation: turns carrying more than one call are not supported;
// any call after the first is ignored.
func (c Content) FirstFunctionCall() (FunctionCall, bool) {
	for _, p := range c.Parts {
		if fp, ok := p.(FunctionCallPart); ok {
			return fp.Call, true
		}
	}
	return FunctionCall{}, false
}
