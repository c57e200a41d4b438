package xtee

import "time"

// Adapter is the backend Strategy a Mirror writes records to (e.g., slog wrapper).
// Log receives the single authoritative timestamp 'at' from the Mirror to avoid
// multiple time reads and ensure consistency across adapter and hooks.
type Adapter interface {
	Log(level Level, msg string, at time.Time, fields []Field)
	With(fields []Field) Adapter // return a child adapter with bound fields (do not mutate receiver)
}
