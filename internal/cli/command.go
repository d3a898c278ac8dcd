package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	flag "github.com/spf13/pflag"
)

// Command is one reiter subcommand.
type Command struct {
	// Flags are parsed from the arguments after the command name.
	Flags *flag.FlagSet

	// Usage starts with the command name, e.g. "dump [--out PATH] [FILE]".
	Usage string

	// Short is shown in the command list, Long in "reiter <cmd> --help".
	Short string
	Long  string

	// Exec receives the positional arguments left after flag parsing.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name is the first word of Usage.
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

func (c *Command) writeHelp(w io.Writer) {
	_, _ = fmt.Fprintf(w, "Usage: reiter %s\n\n", c.Usage)

	if c.Long != "" {
		_, _ = fmt.Fprintln(w, c.Long)
	} else {
		_, _ = fmt.Fprintln(w, c.Short)
	}

	if c.Flags == nil || !c.Flags.HasFlags() {
		return
	}

	_, _ = fmt.Fprintf(w, "\nFlags:\n%s", c.Flags.FlagUsages())
}

// Run parses args into the command's flags and executes it.
// It returns the process exit code.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(io.Discard)

	err := c.Flags.Parse(args)

	switch {
	case errors.Is(err, flag.ErrHelp):
		var help strings.Builder
		c.writeHelp(&help)
		o.Printf("%s", help.String())

		return 0
	case err != nil:
		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.writeHelp(o.errOut)

		return 1
	}

	if err := c.Exec(ctx, o, c.Flags.Args()); err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	return o.Finish()
}

// commandSet is the ordered list of commands reiter knows.
type commandSet []*Command

func (s commandSet) lookup(name string) *Command {
	for _, c := range s {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

func (s commandSet) writeList(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)

	for _, c := range s {
		_, _ = fmt.Fprintf(tw, "  %s\t%s\n", c.Usage, c.Short)
	}

	_ = tw.Flush()
}
