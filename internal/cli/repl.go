package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/reiterator/internal/fs"
	"github.com/calvinalkan/reiterator/pkg/reiterator"
)

// ReplCmd returns the repl command.
func ReplCmd(cfg *Config, fsys fs.FS, stdin io.Reader, log zerolog.Logger) *Command {
	var src sourceFlags

	flags := flag.NewFlagSet("repl", flag.ContinueOnError)
	src.register(flags)

	return &Command{
		Flags: flags,
		Usage: "repl [--range N | FILE]",
		Short: "Explore a source interactively",
		Long: `Wrap a source in a reiterator and read commands.

The source is the lines of FILE or the integers 0..N-1 (--range N).
On a terminal, commands are read from a prompt with history and completion.
Otherwise each line of stdin is one command (script mode), and the command
fails if any line failed.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execRepl(ctx, o, cfg, fsys, stdin, log, src, args)
		},
	}
}

func execRepl(
	ctx context.Context,
	o *IO,
	cfg *Config,
	fsys fs.FS,
	stdin io.Reader,
	log zerolog.Logger,
	srcFlags sourceFlags,
	args []string,
) error {
	if srcFlags.rangeN < 0 && (len(args) == 0 || args[0] == "-") {
		return fmt.Errorf("%w: repl reads commands from stdin, pass --range N or FILE", ErrMissingArgument)
	}

	src, err := openSource(fsys, cfg.EffectiveCwd, stdin, srcFlags, args)
	if err != nil {
		return err
	}

	it, err := newReiterator(cfg, log, src)
	if err != nil {
		_ = src.Close()

		return err
	}

	defer func() { _ = it.Close() }()

	sess := &session{it: it, out: o.Out(), fsys: fsys, workDir: cfg.EffectiveCwd}

	if isTerminal(stdin) {
		err = runInteractive(ctx, o, cfg, fsys, sess)
	} else {
		err = runScript(ctx, o, stdin, sess)
	}

	if err != nil {
		return err
	}

	if srcErr := src.Err(); srcErr != nil {
		return fmt.Errorf("%w: %w", ErrSourceRead, srcErr)
	}

	return nil
}

// runScript executes one command per input line. Failed commands are
// reported and execution continues; the run fails at the end.
func runScript(ctx context.Context, o *IO, stdin io.Reader, sess *session) error {
	scanner := bufio.NewScanner(stdin)
	failed := 0

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := sess.exec(scanner.Text())
		if errors.Is(err, errQuit) {
			break
		}

		if err != nil {
			o.ErrPrintln("error:", err)

			failed++
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading commands: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d command(s) failed", failed)
	}

	return nil
}

func runInteractive(ctx context.Context, o *IO, cfg *Config, fsys fs.FS, sess *session) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completeCommand)

	if cfg.HistoryFileAbs != "" {
		if f, err := fsys.Open(cfg.HistoryFileAbs); err == nil {
			_, _ = line.ReadHistory(f)
			_ = f.Close()
		}
	}

	o.Println("Type 'help' for available commands.")

	for ctx.Err() == nil {
		input, err := line.Prompt(cfg.Prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line.AppendHistory(input)

		err = sess.exec(input)
		if errors.Is(err, errQuit) {
			break
		}

		if err != nil {
			o.ErrPrintln("error:", err)
		}
	}

	if cfg.HistoryFileAbs != "" {
		var buf bytes.Buffer

		_, _ = line.WriteHistory(&buf)

		err := fsys.WriteFileAtomic(cfg.HistoryFileAbs, buf.Bytes(), 0o600)
		if err != nil {
			o.Warn("cannot save history", err.Error())
		}
	}

	return nil
}

func newReiterator(cfg *Config, log zerolog.Logger, src reiterator.Source[string]) (*reiterator.Reiterator[string], error) {
	it, err := reiterator.New(src, reiterator.Options{
		ChunkSize: cfg.ChunkSizeValue(),
		MaxCached: cfg.MaxCachedValue(),
		Logger:    &log,
	})
	if err != nil {
		return nil, fmt.Errorf("creating reiterator: %w", err)
	}

	return it, nil
}
