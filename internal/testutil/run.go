package testutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/calvinalkan/reiterator/pkg/reiterator"
)

// RunConfig configures a behavior test run.
type RunConfig struct {
	// MaxOps is the maximum number of operations to execute.
	MaxOps int

	// CompareStateEveryN runs full state comparison every N operations.
	// Set to 0 to disable periodic checks (only check at end).
	CompareStateEveryN int

	Harness HarnessConfig
	OpGen   OpGenConfig
}

// DefaultRunConfig returns a balanced configuration for behavior tests.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		MaxOps:             200,
		CompareStateEveryN: 1,
		Harness:            HarnessConfig{SourceLen: 24, ChunkSize: 5},
		OpGen:              DefaultOpGenConfig(),
	}
}

// RunBehavior executes the operations encoded in seed against the model
// and the real Reiterator and fails tb on the first divergence.
func RunBehavior(tb testing.TB, seed []byte, cfg RunConfig) {
	tb.Helper()

	if cfg.MaxOps <= 0 {
		tb.Fatalf("RunBehavior requires MaxOps > 0")
	}

	h := NewHarness(tb, cfg.Harness)
	gen := NewOpGenerator(seed, &cfg.OpGen)
	history := make([]string, 0, cfg.MaxOps)

	for opIndex := 1; opIndex <= cfg.MaxOps && gen.HasMore(); opIndex++ {
		op := gen.NextOp()
		history = append(history, op.String())

		modelRes, realRes := h.Apply(op)

		err := CompareResults(op, modelRes, realRes)
		if err != nil {
			tb.Fatalf("%v\n%s", err, FormatOps(history))
		}

		if cfg.CompareStateEveryN > 0 && opIndex%cfg.CompareStateEveryN == 0 {
			err := CompareState(h)
			if err != nil {
				tb.Fatalf("%v\n%s", err, FormatOps(history))
			}
		}
	}

	err := CompareState(h)
	if err != nil {
		tb.Fatalf("%v\n%s", err, FormatOps(history))
	}
}

// CompareResults compares model and real results of one operation.
func CompareResults(op Op, modelRes, realRes Result) error {
	if errors.Is(realRes.Err, ErrHandleMoved) {
		return fmt.Errorf("%s: %w", op, realRes.Err)
	}

	modelAlloc := errors.Is(modelRes.Err, reiterator.ErrAllocation)
	realAlloc := errors.Is(realRes.Err, reiterator.ErrAllocation)

	if modelAlloc != realAlloc || (modelRes.Err == nil) != (realRes.Err == nil) {
		return fmt.Errorf("%s: error mismatch: model=%v real=%v", op, modelRes.Err, realRes.Err)
	}

	if modelRes.OK != realRes.OK || (modelRes.OK && (modelRes.Index != realRes.Index || modelRes.Value != realRes.Value)) {
		return fmt.Errorf("%s: result mismatch: model=%s real=%s", op, modelRes, realRes)
	}

	return nil
}

// CompareState compares cursor and counters of model and real Reiterator.
func CompareState(h *Harness) error {
	if h.Model.Cursor != h.Real.Index() {
		return fmt.Errorf("cursor mismatch: model=%d real=%d", h.Model.Cursor, h.Real.Index())
	}

	diff := cmp.Diff(h.Model.Stats(), h.Real.Stats(), cmpopts.IgnoreFields(reiterator.Stats{}, "Chunks"))
	if diff != "" {
		return fmt.Errorf("stats mismatch (-model +real):\n%s", diff)
	}

	return nil
}
