package xtee

import (
	"io"
	"os"
	"sync/atomic"
)

// defaultAdapterFactory is set by an adapter package (e.g., adapter/line)
// in its init() to avoid import cycles. Default() uses this to build a mirror.
var defaultAdapterFactory atomic.Pointer[func(io.Writer) Adapter]

// RegisterDefaultAdapterFactory registers the constructor used by Default.
// Adapters should call this from init() to avoid import cycles.
// Example (in adapter/line):
//
//	func init() {
//	  xtee.RegisterDefaultAdapterFactory(func(w io.Writer) xtee.Adapter {
//	    return lineadapter.New(w, lineadapter.Options{Format: lineadapter.FormatText})
//	  })
//	}
func RegisterDefaultAdapterFactory(f func(io.Writer) Adapter) {
	defaultAdapterFactory.Store(&f)
}

// Default builds a mirror over the registered factory writing to os.Stderr,
// the conventional place for debugger-side output. Panics if no factory is
// registered; blank-import github.com/trickstertwo/xtee/adapter/line to get one.
func Default() *Mirror {
	f := defaultAdapterFactory.Load()
	if f == nil {
		panic("xtee: no default adapter registered. Import adapter/line or call xtee.RegisterDefaultAdapterFactory")
	}
	return newMirror(Config{
		Adapter:  (*f)(os.Stderr),
		MinLevel: LevelDebug,
	})
}

// UseAdapter builds a mirror over a with the given min level and hooks.
func UseAdapter(a Adapter, min Level, hooks ...Hook) *Mirror {
	b := NewBuilder().
		WithAdapter(a).
		WithMinLevel(min)
	for _, h := range hooks {
		b.AddHook(h)
	}
	m, err := b.Build()
	if err != nil {
		// Only a nil adapter fails Build; surface the programming error.
		panic(err)
	}
	return m
}
