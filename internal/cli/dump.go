package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/reiterator/internal/fs"
)

// DumpCmd returns the dump command.
func DumpCmd(cfg *Config, fsys fs.FS, stdin io.Reader, log zerolog.Logger) *Command {
	var (
		src    sourceFlags
		outArg string
	)

	flags := flag.NewFlagSet("dump", flag.ContinueOnError)
	flags.StringVarP(&outArg, "out", "o", "", "Write to `PATH` atomically instead of stdout")
	src.register(flags)

	return &Command{
		Flags: flags,
		Usage: "dump [--out PATH] [--range N | FILE | -]",
		Short: "Drain a source and print index<TAB>value lines",
		Long: `Drain a source through a reiterator and print every element as
index<TAB>value. Without FILE or --range, lines are read from stdin.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execDump(o, cfg, fsys, stdin, log, src, outArg, args)
		},
	}
}

func execDump(
	o *IO,
	cfg *Config,
	fsys fs.FS,
	stdin io.Reader,
	log zerolog.Logger,
	srcFlags sourceFlags,
	outArg string,
	args []string,
) error {
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

	var buf bytes.Buffer

	for i, v := range it.All() {
		writeEntry(&buf, i, *v)
	}

	if err := it.Err(); err != nil {
		return fmt.Errorf("after %d entries: %w", it.Len(), err)
	}

	if err := src.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrSourceRead, err)
	}

	if outArg == "" {
		o.Printf("%s", buf.String())

		return nil
	}

	path := outArg
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.EffectiveCwd, path)
	}

	err = fsys.WriteFileAtomic(path, buf.Bytes(), 0o644)
	if err != nil {
		return fmt.Errorf("writing %s: %w", outArg, err)
	}

	return nil
}
