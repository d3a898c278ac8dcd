package cli

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/reiterator/internal/fs"
	"github.com/calvinalkan/reiterator/pkg/reiterator"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

// lineSource yields the lines of a reader one at a time.
// A read error ends the sequence and is kept for Err.
type lineSource struct {
	scanner *bufio.Scanner
	closer  io.Closer
}

func newLineSource(r io.Reader, closer io.Closer) *lineSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &lineSource{scanner: scanner, closer: closer}
}

func (s *lineSource) Next() (string, bool) {
	if !s.scanner.Scan() {
		return "", false
	}

	return s.scanner.Text(), true
}

// Err returns the error that ended the scan, if any.
func (s *lineSource) Err() error {
	return s.scanner.Err()
}

func (s *lineSource) Close() error {
	if s.closer == nil {
		return nil
	}

	return s.closer.Close()
}

// rangeSource yields "0", "1", ... "n-1".
type rangeSource struct {
	next, n int
}

func (s *rangeSource) Next() (string, bool) {
	if s.next >= s.n {
		return "", false
	}

	v := strconv.Itoa(s.next)
	s.next++

	return v, true
}

// sourceFlags holds the flags shared by commands that take an input.
type sourceFlags struct {
	rangeN int
}

func (f *sourceFlags) register(flags *flag.FlagSet) {
	flags.IntVar(&f.rangeN, "range", -1, "Use the integers 0..N-1 instead of input lines")
}

// inputSource is a string source with an optional deferred read error.
type inputSource interface {
	reiterator.Source[string]
	io.Closer
	Err() error
}

type noErrSource struct {
	reiterator.Source[string]
}

func (noErrSource) Close() error { return nil }
func (noErrSource) Err() error   { return nil }

// openSource picks the input for a command: --range N, FILE, or stdin
// (no argument or "-").
func openSource(fsys fs.FS, workDir string, stdin io.Reader, f sourceFlags, args []string) (inputSource, error) {
	if len(args) > 1 {
		return nil, fmt.Errorf("%w: expected at most one FILE, got %d", ErrInvalidArgument, len(args))
	}

	if f.rangeN >= 0 {
		if len(args) > 0 {
			return nil, ErrSourceConflict
		}

		return noErrSource{&rangeSource{n: f.rangeN}}, nil
	}

	if len(args) == 0 || args[0] == "-" {
		if stdin == nil {
			return nil, fmt.Errorf("%w: no stdin available", ErrMissingArgument)
		}

		return newLineSource(stdin, nil), nil
	}

	path := args[0]
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	file, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", args[0], err)
	}

	return newLineSource(file, file), nil
}
