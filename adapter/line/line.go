package lineadapter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/trickstertwo/xtee"
)

var errQueueFull = errors.New("lineadapter: async queue full, record dropped")

func defaultErrorHandler(err error) { fmt.Fprintf(os.Stderr, "lineadapter: %v\n", err) }

// Adapter writes one line per record. Bound fields are encoded once in With.
type Adapter struct {
	opts   Options
	router Router
	encode encoder
	bound  []byte

	// shared by every clone
	mu    *sync.Mutex
	level *atomic.Int64
	st    *stats
	async *queue
}

type record struct {
	level  xtee.Level
	msg    string
	at     time.Time
	bound  []byte
	fields []xtee.Field
	enc    *Adapter
}

// queue is closed under the write lock; senders hold the read lock from
// the closed check through the send.
type queue struct {
	ch     chan record
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// New writes every record to w.
func New(w io.Writer, opts Options) *Adapter {
	if w == nil {
		w = os.Stdout
	}
	return NewWithRouter(single{w}, opts)
}

// NewWithRouter picks the writer per record level.
func NewWithRouter(r Router, opts Options) *Adapter {
	if r == nil {
		r = single{os.Stdout}
	}
	if opts.Format == 0 {
		opts.Format = FormatText
	}
	if opts.ErrorHandler == nil {
		opts.ErrorHandler = defaultErrorHandler
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1024
	}
	a := &Adapter{
		opts:   opts,
		router: r,
		encode: encoderFor(opts.Format),
		mu:     &sync.Mutex{},
		level:  &atomic.Int64{},
		st:     &stats{},
	}
	a.level.Store(int64(opts.MinLevel))
	if opts.Async {
		n := opts.QueueSize
		if n <= 0 {
			n = 1024
		}
		a.async = &queue{ch: make(chan record, n)}
		a.async.wg.Add(1)
		go a.drain()
	}
	return a
}

// SetMinLevel applies to a and every adapter derived from it with With.
func (a *Adapter) SetMinLevel(l xtee.Level) { a.level.Store(int64(l)) }

// Stats returns a snapshot of the counters shared by a and its clones.
func (a *Adapter) Stats() StatsSnapshot { return a.st.snapshot() }

func (a *Adapter) ResetStats() { a.st.reset() }

// Close flushes the async queue. It is a no-op for synchronous adapters.
func (a *Adapter) Close() error {
	if a.async == nil {
		return nil
	}
	q := a.async
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	q.mu.Unlock()
	q.wg.Wait()
	return nil
}

func (a *Adapter) With(fs []xtee.Field) xtee.Adapter {
	child := *a
	if len(fs) > 0 {
		child.bound = append(slices.Clip(a.bound), encodeFields(a.opts.Format, fs, &a.opts)...)
	}
	return &child
}

func (a *Adapter) Log(level xtee.Level, msg string, at time.Time, fields []xtee.Field) {
	if level < xtee.Level(a.level.Load()) {
		return
	}
	if a.async == nil {
		a.write(level, msg, at, a.bound, fields)
		return
	}
	q := a.async
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		a.write(level, msg, at, a.bound, fields)
		return
	}
	// fields belong to the caller once Log returns.
	rec := record{level: level, msg: msg, at: at, bound: a.bound, fields: slices.Clone(fields), enc: a}
	if a.opts.QueuePolicy == Block {
		q.ch <- rec
		return
	}
	select {
	case q.ch <- rec:
	default:
		a.st.dropped.Add(1)
		a.opts.ErrorHandler(errQueueFull)
	}
}

func (a *Adapter) drain() {
	defer a.async.wg.Done()
	for rec := range a.async.ch {
		rec.enc.write(rec.level, rec.msg, rec.at, rec.bound, rec.fields)
	}
}

func (a *Adapter) write(level xtee.Level, msg string, at time.Time, bound []byte, fields []xtee.Field) {
	buf := getBuf(a.opts.BufferSize)
	defer putBuf(buf)
	defer func() {
		if r := recover(); r != nil {
			a.st.failed.Add(1)
			a.opts.ErrorHandler(fmt.Errorf("panic while encoding record: %v", r))
		}
	}()

	a.encode(buf, level, msg, at, bound, fields, &a.opts)

	w := a.router.WriterFor(level)
	if w == nil {
		return
	}
	a.mu.Lock()
	_, err := w.Write(buf.b)
	a.mu.Unlock()
	if err != nil {
		a.st.failed.Add(1)
		a.opts.ErrorHandler(err)
		return
	}
	a.st.written.Add(1)
}
