package xtee

import (
	"slices"
	"sync"
	"time"

	"github.com/trickstertwo/xclock"
)

// Call is one recorded console invocation.
type Call struct {
	Tag  string
	Name string
	Args []any
	At   time.Time
}

// Recorder keeps a single ordered transcript shared by every console it
// hands out. It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

func NewRecorder() *Recorder { return &Recorder{} }

// Console returns a console whose members append to the transcript under tag.
func (r *Recorder) Console(tag string, names ...string) *Console {
	c := NewConsole()
	for _, name := range names {
		c.Set(name, r.member(tag, name))
	}
	return c
}

func (r *Recorder) member(tag, name string) Func {
	return func(args ...any) error {
		r.record(Call{Tag: tag, Name: name, Args: slices.Clone(args), At: xclock.Now()})
		return nil
	}
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
}

// Calls returns a copy of the transcript.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}
