package testutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/calvinalkan/reiterator/pkg/reiterator"
	"github.com/calvinalkan/reiterator/pkg/reiterator/model"
)

// ErrHandleMoved is reported when the real Reiterator returns a different
// *T for a position it returned before.
var ErrHandleMoved = errors.New("handle moved")

// Result is an observable operation outcome.
//
// OK mirrors the ok return of an access method (or the bool of Advance).
// Index and Value are only meaningful when OK is true.
type Result struct {
	OK    bool
	Index int
	Value int
	Err   error
}

func (r Result) String() string {
	if r.Err != nil {
		return "err=" + r.Err.Error()
	}

	if !r.OK {
		return "(none)"
	}

	return fmt.Sprintf("%d=%d", r.Index, r.Value)
}

// Op is a behavior test operation executed against model and real Reiterator.
type Op interface {
	ApplyModel(h *Harness) Result
	ApplyReal(h *Harness) Result
	String() string
}

func modelResult(entry model.Entry[int], ok bool, err error) Result {
	if err != nil || !ok {
		return Result{OK: false, Err: err}
	}

	return Result{OK: true, Index: entry.Index, Value: entry.Value}
}

func realResult(h *Harness, handle reiterator.Indexed[int], ok bool, err error) Result {
	if err != nil || !ok {
		return Result{OK: false, Err: err}
	}

	moveErr := h.checkHandle(handle)
	if moveErr != nil {
		return Result{OK: true, Index: handle.Index, Value: *handle.Value, Err: moveErr}
	}

	return Result{OK: true, Index: handle.Index, Value: *handle.Value}
}

// OpAt calls At(Pos).
type OpAt struct{ Pos int }

func (o OpAt) ApplyModel(h *Harness) Result { return modelResult(h.Model.At(o.Pos)) }

func (o OpAt) ApplyReal(h *Harness) Result {
	handle, ok, err := h.Real.At(o.Pos)

	return realResult(h, handle, ok, err)
}

func (o OpAt) String() string { return fmt.Sprintf("At(%d)", o.Pos) }

// OpGet calls Get().
type OpGet struct{}

func (OpGet) ApplyModel(h *Harness) Result { return modelResult(h.Model.Get()) }

func (OpGet) ApplyReal(h *Harness) Result {
	handle, ok, err := h.Real.Get()

	return realResult(h, handle, ok, err)
}

func (OpGet) String() string { return "Get()" }

// OpNext calls Next().
type OpNext struct{}

func (OpNext) ApplyModel(h *Harness) Result { return modelResult(h.Model.Next()) }

func (OpNext) ApplyReal(h *Harness) Result {
	handle, ok, err := h.Real.Next()

	return realResult(h, handle, ok, err)
}

func (OpNext) String() string { return "Next()" }

// OpSeek calls Seek(Pos).
type OpSeek struct{ Pos int }

func (o OpSeek) ApplyModel(h *Harness) Result { return modelResult(h.Model.Seek(o.Pos)) }

func (o OpSeek) ApplyReal(h *Harness) Result {
	handle, ok, err := h.Real.Seek(o.Pos)

	return realResult(h, handle, ok, err)
}

func (o OpSeek) String() string { return fmt.Sprintf("Seek(%d)", o.Pos) }

// OpPeek calls Peek(Pos).
type OpPeek struct{ Pos int }

func (o OpPeek) ApplyModel(h *Harness) Result {
	entry, ok := h.Model.Peek(o.Pos)

	return modelResult(entry, ok, nil)
}

func (o OpPeek) ApplyReal(h *Harness) Result {
	handle, ok := h.Real.Peek(o.Pos)

	return realResult(h, handle, ok, nil)
}

func (o OpPeek) String() string { return fmt.Sprintf("Peek(%d)", o.Pos) }

// OpSetIndex calls SetIndex(Pos).
type OpSetIndex struct{ Pos int }

func (o OpSetIndex) ApplyModel(h *Harness) Result {
	h.Model.SetIndex(o.Pos)

	return Result{OK: true}
}

func (o OpSetIndex) ApplyReal(h *Harness) Result {
	h.Real.SetIndex(o.Pos)

	return Result{OK: true}
}

func (o OpSetIndex) String() string { return fmt.Sprintf("SetIndex(%d)", o.Pos) }

// OpRestart calls Restart().
type OpRestart struct{}

func (OpRestart) ApplyModel(h *Harness) Result {
	h.Model.Restart()

	return Result{OK: true}
}

func (OpRestart) ApplyReal(h *Harness) Result {
	h.Real.Restart()

	return Result{OK: true}
}

func (OpRestart) String() string { return "Restart()" }

// OpAdvance calls Advance().
type OpAdvance struct{}

func (OpAdvance) ApplyModel(h *Harness) Result { return Result{OK: h.Model.Advance()} }

func (OpAdvance) ApplyReal(h *Harness) Result { return Result{OK: h.Real.Advance()} }

func (OpAdvance) String() string { return "Advance()" }

// OpPopulate calls Populate().
type OpPopulate struct{}

func (OpPopulate) ApplyModel(h *Harness) Result {
	err := h.Model.Populate()

	return Result{OK: err == nil, Err: err}
}

func (OpPopulate) ApplyReal(h *Harness) Result {
	err := h.Real.Populate()

	return Result{OK: err == nil, Err: err}
}

func (OpPopulate) String() string { return "Populate()" }

// FormatOps renders an op history for failure messages.
func FormatOps(history []string) string {
	var b strings.Builder

	b.WriteString("op history:\n")

	for i, op := range history {
		fmt.Fprintf(&b, "  %3d: %s\n", i+1, op)
	}

	return b.String()
}
