package testutil

import (
	"fmt"
	"testing"

	"github.com/calvinalkan/reiterator/pkg/reiterator"
	"github.com/calvinalkan/reiterator/pkg/reiterator/model"
)

// HarnessConfig shapes the source and the Reiterator under test.
type HarnessConfig struct {
	SourceLen int
	ChunkSize int
	MaxCached int
}

// Harness wires together a real Reiterator and the model over the same
// source.
type Harness struct {
	TB     testing.TB
	Source []int
	Real   *reiterator.Reiterator[int]
	Model  *model.Reiterator[int]

	// handles remembers the first *int returned for every position.
	handles map[int]*int
}

// NewHarness creates a harness whose source yields SourceLen distinct values.
func NewHarness(tb testing.TB, cfg HarnessConfig) *Harness {
	tb.Helper()

	source := make([]int, cfg.SourceLen)
	for i := range source {
		source[i] = i*7 + 3
	}

	impl, err := reiterator.New(reiterator.SliceSource(source), reiterator.Options{
		ChunkSize: cfg.ChunkSize,
		MaxCached: cfg.MaxCached,
	})
	if err != nil {
		tb.Fatalf("reiterator.New: %v", err)
	}

	return &Harness{
		TB:      tb,
		Source:  source,
		Real:    impl,
		Model:   model.New(source, cfg.MaxCached),
		handles: map[int]*int{},
	}
}

// Apply runs the operation against the real Reiterator, then the model.
func (h *Harness) Apply(op Op) (Result, Result) {
	realRes := op.ApplyReal(h)
	modelRes := op.ApplyModel(h)

	return modelRes, realRes
}

func (h *Harness) checkHandle(handle reiterator.Indexed[int]) error {
	prev, seen := h.handles[handle.Index]
	if !seen {
		h.handles[handle.Index] = handle.Value

		return nil
	}

	if prev != handle.Value {
		return fmt.Errorf("%w: position %d", ErrHandleMoved, handle.Index)
	}

	return nil
}
