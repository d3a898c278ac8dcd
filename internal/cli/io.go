package cli

import (
	"fmt"
	"io"
)

// IO is the output side of a command.
//
// Warnings do not fail a command on their own, but they make it exit 1. They
// are printed to stderr just before the first stdout line and repeated
// when the command finishes, so they are visible at both ends of long output.
type IO struct {
	out, errOut io.Writer

	warnings    []string
	warnedEarly bool
}

func NewIO(out, errOut io.Writer) *IO {
	return &IO{out: out, errOut: errOut}
}

// Warn records a problem together with what the user can do about it.
func (o *IO) Warn(problem, hint string) {
	o.warnings = append(o.warnings, problem+": "+hint)
}

func (o *IO) Println(a ...any) {
	o.warnBeforeOutput()
	_, _ = fmt.Fprintln(o.out, a...)
}

func (o *IO) Printf(format string, a ...any) {
	o.warnBeforeOutput()
	_, _ = fmt.Fprintf(o.out, format, a...)
}

func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// Out is stdout, for code that streams output directly.
func (o *IO) Out() io.Writer {
	o.warnBeforeOutput()

	return o.out
}

// Finish flushes warnings and returns the exit code: 1 if anything was
// warned about, else 0.
func (o *IO) Finish() int {
	o.warnBeforeOutput()

	if len(o.warnings) == 0 {
		return 0
	}

	o.writeWarnings()

	return 1
}

func (o *IO) warnBeforeOutput() {
	if o.warnedEarly || len(o.warnings) == 0 {
		return
	}

	o.warnedEarly = true
	o.writeWarnings()
}

func (o *IO) writeWarnings() {
	for _, w := range o.warnings {
		_, _ = fmt.Fprintln(o.errOut, "warning:", w)
	}
}
