package usage

import (
	"sync"
	"testing"

	"github.com/wanderlabs/tripmcp/pkg/llm"
)

func TestMemoryRecorderConcurrent(t *testing.T) {
	rec := NewMemoryRecorder()

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				rec.Record("trip_planner", llm.Usage{PromptTokens: 2, ResponseTokens: 1, TotalTokens: 3})
			}
		}()
	}
	wg.Wait()

	total, count := rec.Totals("trip_planner")
	if count != workers*perWorker {
		t.Errorf("count = %d, expected %d", count, workers*perWorker)
	}
	if total.TotalTokens != 3*workers*perWorker {
		t.Errorf("total tokens = %d, expected %d", total.TotalTokens, 3*workers*perWorker)
	}

	if _, count := rec.Totals("other"); count != 0 {
		t.Errorf("unexpected records for unknown feature: %d", count)
	}
}
