package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/trickstertwo/xtee"
	lineadapter "github.com/trickstertwo/xtee/adapter/line"
	slogadapter "github.com/trickstertwo/xtee/adapter/slog"
	zapadapter "github.com/trickstertwo/xtee/adapter/zap"
	zerologadapter "github.com/trickstertwo/xtee/adapter/zerolog"
	"github.com/trickstertwo/xtee/internal/config"
	"github.com/trickstertwo/xtee/internal/host"
)

type flags struct {
	configPath        string
	noConsoleRedirect bool
	backend           string
	format            string
	level             string
	timeout           time.Duration
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	code := 0
	cmd := newRootCmd(stdout, stderr, getenv, &code)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "xtee: %v\n", err)
		return 1
	}
	return code
}

func newRootCmd(stdout, stderr io.Writer, getenv func(string) string, code *int) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "xtee [flags] <script> [script-args...]",
		Short: "Run a script with its console teed into a debugger log",
		Long: `xtee runs a JavaScript file in a small host runtime.

Calls on the script console print to stdout as usual and are also
recorded as structured log lines on stderr through the selected backend.
The completion value of the script becomes the exit code.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(cmd.Flags(), f, getenv)
			if err != nil {
				return err
			}
			c, err := runScript(cmd.Context(), cfg, args[0], args[1:], stdout, stderr)
			*code = c
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	fs := cmd.Flags()
	fs.SetInterspersed(false) // everything after the script path belongs to the script
	fs.StringVar(&f.configPath, "config", "", "YAML configuration file")
	fs.BoolVar(&f.noConsoleRedirect, "no-console-redirect", false, "do not tee the script console into the debugger log")
	fs.StringVar(&f.backend, "backend", "", "log backend: line, zap, zerolog or slog")
	fs.StringVar(&f.format, "format", "", "log format: text or json")
	fs.StringVar(&f.level, "level", "", "minimum level: trace, debug, info, warn or error")
	fs.DurationVar(&f.timeout, "timeout", 0, "interrupt the script after this long (0 = no limit)")

	return cmd
}

// resolve layers flags that were set explicitly over the loaded config.
func resolve(fs *pflag.FlagSet, f flags, getenv func(string) string) (config.Config, error) {
	cfg, err := config.Load(f.configPath, getenv)
	if err != nil {
		return cfg, err
	}
	if fs.Changed("backend") {
		cfg.Backend = f.backend
	}
	if fs.Changed("format") {
		cfg.Format = f.format
	}
	if fs.Changed("level") {
		cfg.Level = f.level
	}
	if fs.Changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if fs.Changed("no-console-redirect") {
		cfg.ConsoleRedirect = !f.noConsoleRedirect
	}
	return cfg, cfg.Validate()
}

func runScript(ctx context.Context, cfg config.Config, script string, args []string, stdout, stderr io.Writer) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	h := host.New(host.Options{
		Stdout:          stdout,
		Args:            args,
		Mirror:          newMirror(cfg, stderr),
		ConsoleRedirect: cfg.ConsoleRedirect,
		Color:           isColorTerminal(stdout),
	})
	code, err := h.RunFile(ctx, script)

	var se *host.ScriptError
	if errors.As(err, &se) {
		fmt.Fprintf(stderr, "xtee: exception: %s\n", se.Message)
		return 1, nil
	}
	return code, err
}

func newMirror(cfg config.Config, w io.Writer) *xtee.Mirror {
	lvl := cfg.MinLevel()
	text := cfg.Format == "text"
	switch cfg.Backend {
	case "zap":
		return zapadapter.Use(zapadapter.Config{Writer: w, MinLevel: lvl, Console: text, Name: "xtee"})
	case "zerolog":
		return zerologadapter.Use(zerologadapter.Config{Writer: w, MinLevel: lvl, Console: text, NoColor: !isColorTerminal(w)})
	case "slog":
		format := slogadapter.FormatJSON
		if text {
			format = slogadapter.FormatText
		}
		return slogadapter.Use(slogadapter.Config{Writer: w, MinLevel: lvl, Format: format})
	default:
		return lineadapter.Use(lineadapter.Config{Writer: w, MinLevel: lvl, Format: lineadapter.ParseFormat(cfg.Format)})
	}
}

func isColorTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && !color.NoColor && (f == os.Stdout || f == os.Stderr)
}
