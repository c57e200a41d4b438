package slogadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/trickstertwo/xtee"
)

// Adapter hands mirrored console calls to a slog.Handler as records stamped
// with the mirror's timestamp, so the handler's own time key carries it.
// Bound fields go through Handler.WithAttrs once.
type Adapter struct {
	h  slog.Handler
	lv *slog.LevelVar // optional, enables SetMinLevel
}

// New wraps h; a nil handler means slog.Default().Handler().
func New(h slog.Handler) *Adapter {
	if h == nil {
		h = slog.Default().Handler()
	}
	return &Adapter{h: h}
}

// NewWithLevelVar lets SetMinLevel move lv, which should be the handler's
// HandlerOptions.Level.
func NewWithLevelVar(h slog.Handler, lv *slog.LevelVar) *Adapter {
	a := New(h)
	a.lv = lv
	return a
}

func (a *Adapter) With(fs []xtee.Field) xtee.Adapter {
	child := *a
	if len(fs) > 0 {
		attrs := make([]slog.Attr, len(fs))
		for i := range fs {
			attrs[i] = toAttr(&fs[i])
		}
		child.h = a.h.WithAttrs(attrs)
	}
	return &child
}

func (a *Adapter) Log(level xtee.Level, msg string, at time.Time, fields []xtee.Field) {
	ctx := context.Background()
	sl := slog.Level(level)
	if !a.h.Enabled(ctx, sl) {
		return
	}
	r := slog.NewRecord(at, sl, msg, 0)
	for i := range fields {
		r.AddAttrs(toAttr(&fields[i]))
	}
	_ = a.h.Handle(ctx, r)
}

func (a *Adapter) SetMinLevel(l xtee.Level) {
	if a.lv != nil {
		a.lv.Set(slog.Level(l))
	}
}

func toAttr(f *xtee.Field) slog.Attr {
	switch f.Kind {
	case xtee.KindString:
		return slog.String(f.K, f.Str)
	case xtee.KindInt64:
		return slog.Int64(f.K, f.Int64)
	case xtee.KindUint64:
		return slog.Uint64(f.K, f.Uint64)
	case xtee.KindFloat64:
		return slog.Float64(f.K, f.Float64)
	case xtee.KindBool:
		return slog.Bool(f.K, f.Bool)
	case xtee.KindDuration:
		return slog.Duration(f.K, f.Dur)
	case xtee.KindTime:
		return slog.Time(f.K, f.Time)
	case xtee.KindError:
		if f.Err == nil {
			return slog.Any(f.K, nil)
		}
		return slog.String(f.K, f.Err.Error())
	case xtee.KindBytes:
		return slog.Any(f.K, f.Bytes)
	default:
		return slog.Any(f.K, f.Any)
	}
}
