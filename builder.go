package xtee

import "github.com/trickstertwo/xclock"

// DefaultNames are the console members a Mirror defines out of the box.
var DefaultNames = []string{"log", "info", "warn", "error", "debug", "trace"}

// Config describes a Mirror. The zero MinLevel is LevelInfo.
type Config struct {
	Adapter  Adapter
	MinLevel Level
	Names    []string // extra member names on top of DefaultNames
	Hooks    []Hook
	Clock    xclock.Clock // nil reads xclock.Default() per record
}

// Builder assembles a Config step by step.
type Builder struct {
	cfg Config
}

func NewBuilder() *Builder { return &Builder{cfg: Config{MinLevel: LevelInfo}} }

func (b *Builder) WithAdapter(a Adapter) *Builder {
	b.cfg.Adapter = a
	return b
}

func (b *Builder) WithMinLevel(l Level) *Builder {
	b.cfg.MinLevel = l
	return b
}

// WithClock pins the record clock, e.g. to a frozen clock in tests.
func (b *Builder) WithClock(c xclock.Clock) *Builder {
	b.cfg.Clock = c
	return b
}

// WithNames adds member names beyond DefaultNames; duplicates are ignored.
func (b *Builder) WithNames(names ...string) *Builder {
	b.cfg.Names = append(b.cfg.Names, names...)
	return b
}

func (b *Builder) AddHook(h Hook) *Builder {
	if h != nil {
		b.cfg.Hooks = append(b.cfg.Hooks, h)
	}
	return b
}

// Build returns ErrNoAdapter when no adapter was set. Adapters that filter on
// their own (SetMinLevel) are told the mirror's level so both agree.
func (b *Builder) Build() (*Mirror, error) {
	if b.cfg.Adapter == nil {
		return nil, ErrNoAdapter
	}
	if ls, ok := b.cfg.Adapter.(interface{ SetMinLevel(Level) }); ok {
		ls.SetMinLevel(b.cfg.MinLevel)
	}
	return newMirror(b.cfg), nil
}
