package xtee

import (
	"fmt"
	"slices"
)

// Environment holds the console slot a host hands to scripts.
//
// Patch overwrites the slot without synchronization; callers that share an
// Environment between goroutines must serialize Patch themselves.
type Environment struct {
	Console *Console
}

// Patch installs Tee(source, observer) into env.Console.
func Patch(env *Environment, source, observer *Console) {
	env.Console = Tee(source, observer)
}

// Tee builds a console that mirrors every callable member of source.
//
// Calling a member of the result calls the same-named member of source with
// the received arguments, then the same-named member of observer when that
// one is callable too. Source failures (errors or panics) stop the call before
// the observer is reached; neither failure is wrapped or recovered.
// Non-callable members of source are left out. Both consoles are only read,
// and members are resolved when the wrapper runs, not when Tee is called.
func Tee(source, observer *Console) *Console {
	out := NewConsole()
	source.Each(func(name string, v any) bool {
		if IsCallable(v) {
			out.Set(name, forward(name, source, observer))
		}
		return true
	})
	return out
}

// forward binds one wrapper to one name; name is a parameter so every wrapper
// owns its copy.
func forward(name string, source, observer *Console) Func {
	return func(args ...any) error {
		src, ok := source.Func(name)
		if !ok {
			return fmt.Errorf("xtee: source %q: %w", name, ErrNotCallable)
		}
		// The observer gets its own slice header; the values are shared.
		obsArgs := slices.Clone(args)
		if err := src(args...); err != nil {
			return err
		}
		obs, ok := observer.Func(name)
		if !ok {
			return nil
		}
		return obs(obsArgs...)
	}
}
