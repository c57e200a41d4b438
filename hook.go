package xtee

import "time"

// Entry is a read-only snapshot of one mirrored console call.
type Entry struct {
	At      time.Time
	Level   Level
	Method  string
	Message string
	Args    []any   // the call's arguments, as received
	Fields  []Field // bound + per-call fields; fresh per entry, safe to hold
}

// Hook is notified for each entry a Mirror emits (Observer pattern).
// Implementations MUST be concurrency-safe.
type Hook interface {
	OnCall(e Entry)
}

// HookFunc adapter.
type HookFunc func(Entry)

func (f HookFunc) OnCall(e Entry) { f(e) }
