package slogadapter

import (
	"io"
	"log/slog"
	"os"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xtee"
)

// Format selects the slog handler.
type Format uint8

const (
	FormatJSON Format = iota + 1
	FormatText
)

// Config is the code-first setup for a slog-backed mirror.
type Config struct {
	Writer   io.Writer // default os.Stderr
	MinLevel xtee.Level
	Format   Format // JSON when zero

	// HandlerOptions is copied; Level and the level-name rewrite are managed
	// by Use.
	HandlerOptions *slog.HandlerOptions
	Names          []string
	Hooks          []xtee.Hook
}

// levelNames renders trace and fatal by name instead of "DEBUG-4"/"ERROR+4".
func levelNames(next func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && a.Key == slog.LevelKey {
			if l, ok := a.Value.Any().(slog.Level); ok {
				a.Value = slog.StringValue(xtee.Level(l).String())
			}
		}
		if next != nil {
			return next(groups, a)
		}
		return a
	}
}

// Use builds a slog handler from cfg and returns a Mirror over it, bound to
// xclock.Default().
func Use(cfg Config) *xtee.Mirror {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	var opts slog.HandlerOptions
	if cfg.HandlerOptions != nil {
		opts = *cfg.HandlerOptions
	}
	lv := new(slog.LevelVar)
	lv.Set(slog.Level(cfg.MinLevel))
	opts.Level = lv
	opts.ReplaceAttr = levelNames(opts.ReplaceAttr)

	var h slog.Handler
	if cfg.Format == FormatText {
		h = slog.NewTextHandler(w, &opts)
	} else {
		h = slog.NewJSONHandler(w, &opts)
	}

	b := xtee.NewBuilder().
		WithAdapter(NewWithLevelVar(h, lv)).
		WithMinLevel(cfg.MinLevel).
		WithClock(xclock.Default()).
		WithNames(cfg.Names...)
	for _, hk := range cfg.Hooks {
		b.AddHook(hk)
	}
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}
