package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/calvinalkan/reiterator/internal/fs"
	"github.com/calvinalkan/reiterator/pkg/reiterator"
)

// errQuit is returned by session.exec when the user asks to leave.
var errQuit = errors.New("quit")

var sessionCommands = []string{
	"at", "get", "next", "seek", "peek",
	"jump", "restart", "skip", "index",
	"stats", "dump", "help", "quit", "exit", "q",
}

// session executes REPL commands against one Reiterator.
type session struct {
	it      *reiterator.Reiterator[string]
	out     io.Writer
	fsys    fs.FS
	workDir string
}

// exec runs one command line. Blank lines are ignored.
func (s *session) exec(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "quit", "exit", "q":
		return errQuit

	case "help", "?":
		s.printHelp()

		return nil

	case "at":
		pos, err := positionArg(cmd, args)
		if err != nil {
			return err
		}

		return s.printHandle(s.it.At(pos))

	case "get":
		return s.printHandle(s.it.Get())

	case "next":
		return s.printHandle(s.it.Next())

	case "seek":
		pos, err := positionArg(cmd, args)
		if err != nil {
			return err
		}

		return s.printHandle(s.it.Seek(pos))

	case "peek":
		pos, err := positionArg(cmd, args)
		if err != nil {
			return err
		}

		h, ok := s.it.Peek(pos)

		return s.printHandle(h, ok, nil)

	case "jump":
		pos, err := positionArg(cmd, args)
		if err != nil {
			return err
		}

		s.it.SetIndex(pos)

		return nil

	case "restart":
		s.it.Restart()

		return nil

	case "skip":
		if !s.it.Advance() {
			return fmt.Errorf("%w: cursor is already at the last position", ErrInvalidArgument)
		}

		return nil

	case "index":
		_, _ = fmt.Fprintln(s.out, s.it.Index())

		return nil

	case "stats":
		st := s.it.Stats()
		_, _ = fmt.Fprintf(s.out, "cached=%d pulls=%d polls=%d exhausted=%t chunks=%d\n",
			st.Cached, st.Pulls, st.Polls, st.Exhausted, st.Chunks)

		return nil

	case "dump":
		if len(args) != 1 {
			return fmt.Errorf("%w: usage: dump PATH", ErrMissingArgument)
		}

		return s.dumpCached(args[0])

	default:
		return fmt.Errorf("%w: %s (type 'help' for commands)", ErrUnknownCommand, cmd)
	}
}

func (s *session) printHandle(h reiterator.Indexed[string], ok bool, err error) error {
	if err != nil {
		return err
	}

	if !ok {
		_, _ = fmt.Fprintln(s.out, "(none)")

		return nil
	}

	_, _ = fmt.Fprintf(s.out, "%d\t%s\n", h.Index, *h.Value)

	return nil
}

// dumpCached writes the cached prefix without pulling anything new.
func (s *session) dumpCached(path string) error {
	var buf bytes.Buffer

	for pos := range s.it.Len() {
		h, _ := s.it.Peek(pos)
		writeEntry(&buf, h.Index, *h.Value)
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(s.workDir, path)
	}

	err := s.fsys.WriteFileAtomic(path, buf.Bytes(), 0o644)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(s.out, "wrote %d entries to %s\n", s.it.Len(), path)

	return nil
}

func (s *session) printHelp() {
	lines := []string{
		"Commands:",
		"  at N        Element at position N (pulls as needed)",
		"  get         Element at the cursor",
		"  next        Element at the cursor, then move the cursor forward",
		"  seek N      Move the cursor to N and read there",
		"  peek N      Element at N if already cached (never pulls)",
		"  jump N      Move the cursor to N without reading",
		"  restart     Move the cursor to 0",
		"  skip        Move the cursor forward without reading",
		"  index       Print the cursor position",
		"  stats       Print cache counters",
		"  dump PATH   Write every cached element to PATH",
		"  help        Show this help",
		"  quit        Exit",
	}

	for _, l := range lines {
		_, _ = fmt.Fprintln(s.out, l)
	}
}

func completeCommand(line string) []string {
	var completions []string

	lower := strings.ToLower(line)
	for _, cmd := range sessionCommands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

func positionArg(cmd string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: usage: %s N", ErrMissingArgument, cmd)
	}

	pos, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s: position %q is not an integer", ErrInvalidArgument, cmd, args[0])
	}

	return pos, nil
}

func writeEntry(w io.Writer, index int, value string) {
	_, _ = fmt.Fprintf(w, "%d\t%s\n", index, value)
}
