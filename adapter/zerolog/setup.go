package zerologadapter

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xtee"
)

// Config is the code-first setup for a zerolog-backed mirror.
type Config struct {
	Writer            io.Writer // default os.Stderr
	MinLevel          xtee.Level
	Console           bool   // zerolog.ConsoleWriter instead of JSON
	ConsoleTimeFormat string // default time.RFC3339Nano
	NoColor           bool
	Names             []string
	Hooks             []xtee.Hook
}

func newLogger(cfg Config) zerolog.Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	if cfg.Console {
		cw := zerolog.ConsoleWriter{Out: w, NoColor: cfg.NoColor, TimeFormat: cfg.ConsoleTimeFormat}
		if cw.TimeFormat == "" {
			cw.TimeFormat = time.RFC3339Nano
		}
		w = cw
	}
	return zerolog.New(w).Level(mapLevel(cfg.MinLevel))
}

// Use builds a zerolog logger from cfg and returns a Mirror over it, bound to
// xclock.Default().
func Use(cfg Config) *xtee.Mirror {
	b := xtee.NewBuilder().
		WithAdapter(New(newLogger(cfg))).
		WithMinLevel(cfg.MinLevel).
		WithClock(xclock.Default()).
		WithNames(cfg.Names...)
	for _, h := range cfg.Hooks {
		b.AddHook(h)
	}
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}

// FromEnv builds an adapter writing to w from the environment:
//
//	XTEE_LEVEL=trace|debug|info|warn|error  (default info)
//	XTEE_CONSOLE=1                          pretty console output
//	XTEE_CONSOLE_TIMEFORMAT=<layout>        console time layout
//
// An unknown level falls back to info.
func FromEnv(w io.Writer) *Adapter {
	level, err := xtee.ParseLevel(os.Getenv("XTEE_LEVEL"))
	if err != nil {
		level = xtee.LevelInfo
	}
	return New(newLogger(Config{
		Writer:            w,
		MinLevel:          level,
		Console:           os.Getenv("XTEE_CONSOLE") == "1",
		ConsoleTimeFormat: os.Getenv("XTEE_CONSOLE_TIMEFORMAT"),
		NoColor:           true,
	}))
}
