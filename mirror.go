package xtee

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/trickstertwo/xclock"
)

// Mirror is a debugger-side observer console: every call on its Console
// becomes one structured record handed to the Adapter and to hooks.
type Mirror struct {
	adapter    Adapter
	minLevel   Level
	clock      xclock.Clock
	names      []string
	baseFields []Field

	// Hooks: lock-free reads via atomic.Value; synchronized updates via hookMu.
	// Stored value is []Hook and MUST be treated as immutable by readers.
	hooks  atomic.Value // holds []Hook
	hookMu sync.Mutex
}

// Factory: internal constructor.
func newMirror(cfg Config) *Mirror {
	m := &Mirror{
		adapter:  cfg.Adapter,
		minLevel: cfg.MinLevel,
		clock:    cfg.Clock,
		names:    mergeNames(DefaultNames, cfg.Names),
	}
	if len(cfg.Hooks) > 0 {
		m.hooks.Store(slices.Clone(cfg.Hooks))
	} else {
		m.hooks.Store(([]Hook)(nil))
	}
	return m
}

func mergeNames(base, extra []string) []string {
	out := slices.Clone(base)
	for _, n := range extra {
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

// Enabled reports whether calls at 'level' would be emitted.
func (m *Mirror) Enabled(level Level) bool {
	return level >= m.minLevel
}

// Names returns the member names Console defines.
func (m *Mirror) Names() []string { return slices.Clone(m.names) }

// Console returns a fresh console with one member per configured name.
// Members never fail.
func (m *Mirror) Console() *Console {
	c := NewConsole()
	for _, name := range m.names {
		c.Set(name, m.member(name))
	}
	return c
}

// member binds name per closure; level is resolved once.
func (m *Mirror) member(name string) Func {
	level := LevelFor(name)
	return func(args ...any) error {
		m.emit(level, name, args)
		return nil
	}
}

// With returns a child mirror with bound fields.
func (m *Mirror) With(fs ...Field) *Mirror {
	child := &Mirror{
		adapter:    m.adapter.With(fs),
		minLevel:   m.minLevel,
		clock:      m.clock,
		names:      m.names,
		baseFields: append(copyFields(nil, m.baseFields), fs...),
	}
	child.hooks.Store(m.snapshotHooks())
	return child
}

func (m *Mirror) snapshotHooks() []Hook {
	v := m.hooks.Load()
	if v == nil {
		return nil
	}
	cur := v.([]Hook)
	if len(cur) == 0 {
		return nil
	}
	return slices.Clone(cur)
}

func (m *Mirror) AddHook(h Hook) {
	m.hookMu.Lock()
	defer m.hookMu.Unlock()
	m.hooks.Store(append(m.snapshotHooks(), h))
}

func (m *Mirror) now() time.Time {
	if m.clock != nil {
		return m.clock.Now()
	}
	return xclock.Now()
}

func (m *Mirror) emit(level Level, name string, args []any) {
	if level < m.minLevel {
		return
	}
	// Single authoritative timestamp
	at := m.now()
	msg := Sprint(args...)

	// Fast path: adapter handles bound fields internally; pass only call fields.
	buf := getFields()
	*buf = append(*buf, FStr("method", name))
	*buf = appendArgFields(*buf, args)
	m.adapter.Log(level, msg, at, *buf)

	hooks, _ := m.hooks.Load().([]Hook)
	if len(hooks) == 0 {
		putFields(buf)
		return
	}

	// Hooks see combined fields: base + call.
	merged := make([]Field, 0, len(m.baseFields)+len(*buf))
	merged = copyFields(merged, m.baseFields)
	merged = copyFields(merged, *buf)
	putFields(buf)

	entry := Entry{
		At:      at,
		Level:   level,
		Method:  name,
		Message: msg,
		Args:    slices.Clone(args),
		Fields:  merged,
	}
	for _, h := range hooks {
		h.OnCall(entry)
	}
}
