package lineadapter

import (
	"io"

	"github.com/trickstertwo/xtee"
)

// Format selects how a record is laid out on its line.
type Format uint8

const (
	FormatText Format = iota + 1 // ts=... level=... msg=... key=value
	FormatJSON                   // one JSON object per line
)

// ParseFormat maps "text"/"json" to a Format; anything else is text.
func ParseFormat(s string) Format {
	if s == "json" {
		return FormatJSON
	}
	return FormatText
}

// RawJSON is spliced into JSON output verbatim. It MUST be valid JSON.
type RawJSON []byte

// ErrorHandler receives write and formatting failures.
type ErrorHandler func(error)

// QueuePolicy controls what Log does when the async queue is full.
type QueuePolicy uint8

const (
	DropNewest QueuePolicy = iota // default; the record being logged is lost
	Block                         // the caller waits for room
)

// Options configures an Adapter.
type Options struct {
	Format       Format
	MinLevel     xtee.Level
	ErrorHandler ErrorHandler
	TimeFormat   string // text only; RFC3339Nano when empty

	Async       bool
	QueueSize   int
	QueuePolicy QueuePolicy

	// BufferSize is the initial capacity of the line buffer (default 1024).
	BufferSize int
}

// Router picks the destination for a level.
type Router interface {
	WriterFor(level xtee.Level) io.Writer
}

type single struct{ w io.Writer }

func (s single) WriterFor(xtee.Level) io.Writer { return s.w }

// SplitRouter sends records at or above Threshold to High and the rest to Low,
// e.g. warn and error to stderr while log and info go to stdout.
type SplitRouter struct {
	Low, High io.Writer
	Threshold xtee.Level
}

func (r SplitRouter) WriterFor(level xtee.Level) io.Writer {
	if level >= r.Threshold {
		return r.High
	}
	return r.Low
}
