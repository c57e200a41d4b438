package lineadapter

import "sync/atomic"

type stats struct {
	written atomic.Uint64
	failed  atomic.Uint64
	dropped atomic.Uint64
}

// StatsSnapshot is a point-in-time counters snapshot.
type StatsSnapshot struct {
	Written uint64
	Failed  uint64
	Dropped uint64
}

func (s *stats) snapshot() StatsSnapshot {
	return StatsSnapshot{
		Written: s.written.Load(),
		Failed:  s.failed.Load(),
		Dropped: s.dropped.Load(),
	}
}

func (s *stats) reset() {
	s.written.Store(0)
	s.failed.Store(0)
	s.dropped.Store(0)
}
