// Package usage provides best-effort recording of model token consumption.
package usage

import (
	"sync"

	"github.com/wanderlabs/tripmcp/pkg/llm"
)

// Recorder records token usage for a feature. Implementations must be safe
// for concurrent use and should never block the caller; recording is
// best-effort telemetry.
type Recorder interface {
	Record(feature string, u llm.Usage)
}

// NopRecorder discards all records.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(string, llm.Usage) {}

// MemoryRecorder accumulates usage totals per feature in memory.
type MemoryRecorder struct {
	mu     sync.Mutex
	totals map[string]llm.Usage
	counts map[string]int
}

// NewMemoryRecorder creates an empty in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{
		totals: make(map[string]llm.Usage),
		counts: make(map[string]int),
	}
}

// Record implements Recorder.
func (r *MemoryRecorder) Record(feature string, u llm.Usage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := r.totals[feature]
	total.PromptTokens += u.PromptTokens
	total.ResponseTokens += u.ResponseTokens
	total.TotalTokens += u.TotalTokens
	r.totals[feature] = total
	r.counts[feature]++
}

// Totals returns the accumulated usage and record count for a feature.
func (r *MemoryRecorder) Totals(feature string) (llm.Usage, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totals[feature], r.counts[feature]
}
