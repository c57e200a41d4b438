package xtee

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Func is the canonical shape of a console member. Arguments are passed
// through untouched; a non-nil error is the member's failure.
type Func func(args ...any) error

// Console is an insertion-ordered set of named members. A member is either
// callable (a Func or any other Go func value) or an arbitrary value.
//
// Read methods are nil-safe: a nil *Console behaves as an empty console.
// Concurrent reads are fine; mutation must be serialized by the caller.
type Console struct {
	members *orderedmap.OrderedMap[string, any]
}

func NewConsole() *Console {
	return &Console{members: orderedmap.New[string, any]()}
}

// Set stores v under name. Replacing an existing member keeps its position.
func (c *Console) Set(name string, v any) *Console {
	c.members.Set(name, v)
	return c
}

func (c *Console) Get(name string) (any, bool) {
	if c == nil {
		return nil, false
	}
	return c.members.Get(name)
}

func (c *Console) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

func (c *Console) Delete(name string) {
	if c == nil {
		return
	}
	c.members.Delete(name)
}

func (c *Console) Len() int {
	if c == nil {
		return 0
	}
	return c.members.Len()
}

// Names returns member names in insertion order.
func (c *Console) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, c.members.Len())
	for name := range c.members.FromOldest() {
		names = append(names, name)
	}
	return names
}

// Each visits members in insertion order until fn returns false.
func (c *Console) Each(fn func(name string, v any) bool) {
	if c == nil {
		return
	}
	for name, v := range c.members.FromOldest() {
		if !fn(name, v) {
			return
		}
	}
}

// Func returns the member under name when it is callable.
func (c *Console) Func(name string) (Func, bool) {
	v, ok := c.Get(name)
	if !ok {
		return nil, false
	}
	return asFunc(v)
}

// Call invokes the named member with args exactly as given.
func (c *Console) Call(name string, args ...any) error {
	v, ok := c.Get(name)
	if !ok {
		return fmt.Errorf("xtee: %q: %w", name, ErrNoMember)
	}
	fn, ok := asFunc(v)
	if !ok {
		return fmt.Errorf("xtee: %q: %w", name, ErrNotCallable)
	}
	return fn(args...)
}
