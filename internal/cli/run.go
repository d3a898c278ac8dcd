package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/reiterator/internal/fs"
	"github.com/calvinalkan/reiterator/internal/logging"
)

// Run is the main entry point. Returns exit code.
//
// sigCh may be nil. A signal on it cancels the running command's context.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globals := flag.NewFlagSet("reiter", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(io.Discard)

	workDir := globals.StringP("cwd", "C", "", "Run as if started in `DIR`")
	configPath := globals.StringP("config", "c", "", "Use specified config `FILE`")
	chunkSize := globals.Int("chunk-size", 0, "Elements per cache chunk")
	maxCached := globals.Int("max-cached", 0, "Maximum cached elements (0 = unbounded)")
	logLevel := globals.String("log-level", "", "Log level: debug, info, warn, error")
	help := globals.BoolP("help", "h", false, "Show help")

	if len(args) > 0 {
		args = args[1:]
	}

	err := globals.Parse(args)
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, globals, nil)

		return 1
	}

	rest := globals.Args()

	if *help || len(rest) == 0 {
		printUsage(out, globals, nil)

		return 0
	}

	if *workDir != "" && !filepath.IsAbs(*workDir) {
		abs, absErr := filepath.Abs(*workDir)
		if absErr == nil {
			*workDir = abs
		}
	}

	if in == nil {
		in = strings.NewReader("")
	}

	fsys := fs.NewReal()

	input := LoadConfigInput{
		FS:              fsys,
		WorkDirOverride: *workDir,
		ConfigPath:      *configPath,
		LogLevel:        *logLevel,
		Env:             env,
	}

	if globals.Changed("chunk-size") {
		input.ChunkSize = chunkSize
	}

	if globals.Changed("max-cached") {
		input.MaxCached = maxCached
	}

	cfg, err := LoadConfig(input)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	log := newLogger(cfg, errOut)

	commands := newCommands(&cfg, fsys, in, log)

	name := rest[0]

	cmd := commands.lookup(name)
	if cmd == nil {
		fprintln(errOut, fmt.Sprintf("error: %v: %s", ErrUnknownCommand, name))
		printUsage(errOut, globals, commands)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	log.Debug().Str("command", name).Str("cwd", cfg.EffectiveCwd).Msg("run")

	return cmd.Run(ctx, NewIO(out, errOut), rest[1:])
}

func newLogger(cfg Config, errOut io.Writer) zerolog.Logger {
	// Both values were validated by LoadConfig.
	level, _ := logging.ParseLevel(cfg.LogLevel)
	format, _ := logging.ParseFormat(cfg.LogFormat)

	root := logging.New(logging.Options{Level: level, Format: format, Out: errOut})

	return logging.Component(root, "reiter")
}

func newCommands(cfg *Config, fsys fs.FS, in io.Reader, log zerolog.Logger) commandSet {
	return commandSet{
		ReplCmd(cfg, fsys, in, log),
		DumpCmd(cfg, fsys, in, log),
		PrintConfigCmd(cfg),
	}
}

func printUsage(w io.Writer, globals *flag.FlagSet, commands commandSet) {
	if commands == nil {
		cfg := DefaultConfig()
		commands = newCommands(&cfg, nil, nil, zerolog.Nop())
	}

	fprintln(w, "reiter - explore a one-shot source through a caching reiterator")
	fprintln(w)
	fprintln(w, "Usage: reiter [flags] <command> [args]")
	fprintln(w)
	fprintln(w, "Flags:")

	_, _ = fmt.Fprint(w, globals.FlagUsages())

	fprintln(w)
	fprintln(w, "Commands:")
	commands.writeList(w)
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}
