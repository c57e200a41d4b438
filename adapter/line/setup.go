package lineadapter

import (
	"io"
	"os"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xtee"
)

// Importing the package makes it the backend behind xtee.Default.
func init() {
	xtee.RegisterDefaultAdapterFactory(func(w io.Writer) xtee.Adapter {
		return New(w, Options{Format: FormatText, MinLevel: xtee.LevelTrace})
	})
}

// Config is the code-first setup for a line mirror.
type Config struct {
	// Writer receives every record when Router is nil. Defaults to os.Stderr.
	Writer io.Writer
	Router Router

	MinLevel     xtee.Level
	Format       Format
	TimeFormat   string
	ErrorHandler ErrorHandler

	// Names adds console members beyond xtee.DefaultNames.
	Names []string
	Hooks []xtee.Hook
}

// Use builds a synchronous line adapter from cfg and returns a Mirror over it,
// bound to xclock.Default() so frozen clocks apply to record timestamps.
// Async writers are built with New and xtee.UseAdapter so they can be closed.
func Use(cfg Config) *xtee.Mirror {
	opts := Options{
		Format:       cfg.Format,
		MinLevel:     cfg.MinLevel,
		ErrorHandler: cfg.ErrorHandler,
		TimeFormat:   cfg.TimeFormat,
	}
	var ad *Adapter
	if cfg.Router != nil {
		ad = NewWithRouter(cfg.Router, opts)
	} else {
		w := cfg.Writer
		if w == nil {
			w = os.Stderr
		}
		ad = New(w, opts)
	}

	b := xtee.NewBuilder().
		WithAdapter(ad).
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
