package zerologadapter

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/trickstertwo/xtee"
)

// Adapter forwards mirrored console calls to a zerolog.Logger.
//
// With binds fields onto a child logger once. Log compares against the
// logger's level before allocating an event. Durations are written as strings
// ("1.5ms") so output does not depend on zerolog's global duration settings.
type Adapter struct {
	l     zerolog.Logger
	tsKey string
}

// New uses zerolog.TimestampFieldName as the timestamp key, which keeps
// zerolog.ConsoleWriter's time column working.
func New(l zerolog.Logger) *Adapter {
	return &Adapter{l: l, tsKey: zerolog.TimestampFieldName}
}

func NewWithTimestampKey(l zerolog.Logger, key string) *Adapter {
	a := New(l)
	if key != "" {
		a.tsKey = key
	}
	return a
}

func (a *Adapter) With(fs []xtee.Field) xtee.Adapter {
	child := *a
	if len(fs) == 0 {
		return &child
	}
	ctx := a.l.With()
	for i := range fs {
		ctx = appendCtxField(ctx, &fs[i])
	}
	child.l = ctx.Logger()
	return &child
}

// Log writes LevelFatal as error; zerolog's Fatal would exit the process.
func (a *Adapter) Log(level xtee.Level, msg string, at time.Time, fields []xtee.Field) {
	zl := mapLevel(level)
	if zl < a.l.GetLevel() {
		return
	}
	ev := a.l.WithLevel(zl)
	if ev == nil {
		return
	}
	ev.Str(a.tsKey, at.UTC().Format(time.RFC3339Nano))
	for i := range fields {
		appendEventField(ev, &fields[i])
	}
	ev.Msg(msg)
}

func (a *Adapter) SetMinLevel(l xtee.Level) {
	a.l = a.l.Level(mapLevel(l))
}

func mapLevel(l xtee.Level) zerolog.Level {
	switch {
	case l <= xtee.LevelTrace:
		return zerolog.TraceLevel
	case l <= xtee.LevelDebug:
		return zerolog.DebugLevel
	case l <= xtee.LevelInfo:
		return zerolog.InfoLevel
	case l <= xtee.LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func appendEventField(e *zerolog.Event, f *xtee.Field) {
	switch f.Kind {
	case xtee.KindString:
		e.Str(f.K, f.Str)
	case xtee.KindInt64:
		e.Int64(f.K, f.Int64)
	case xtee.KindUint64:
		e.Uint64(f.K, f.Uint64)
	case xtee.KindFloat64:
		e.Float64(f.K, f.Float64)
	case xtee.KindBool:
		e.Bool(f.K, f.Bool)
	case xtee.KindDuration:
		e.Str(f.K, f.Dur.String())
	case xtee.KindTime:
		e.Str(f.K, f.Time.Format(time.RFC3339Nano))
	case xtee.KindError:
		if f.Err != nil {
			e.AnErr(f.K, f.Err)
		}
	case xtee.KindBytes:
		e.Bytes(f.K, f.Bytes)
	case xtee.KindAny:
		e.Interface(f.K, f.Any)
	default:
		e.Interface(f.K, nil)
	}
}

// appendCtxField is appendEventField for zerolog.Context, which has no
// named-error helper.
func appendCtxField(ctx zerolog.Context, f *xtee.Field) zerolog.Context {
	switch f.Kind {
	case xtee.KindString:
		return ctx.Str(f.K, f.Str)
	case xtee.KindInt64:
		return ctx.Int64(f.K, f.Int64)
	case xtee.KindUint64:
		return ctx.Uint64(f.K, f.Uint64)
	case xtee.KindFloat64:
		return ctx.Float64(f.K, f.Float64)
	case xtee.KindBool:
		return ctx.Bool(f.K, f.Bool)
	case xtee.KindDuration:
		return ctx.Str(f.K, f.Dur.String())
	case xtee.KindTime:
		return ctx.Str(f.K, f.Time.Format(time.RFC3339Nano))
	case xtee.KindError:
		if f.Err == nil {
			return ctx
		}
		return ctx.Str(f.K, f.Err.Error())
	case xtee.KindBytes:
		return ctx.Bytes(f.K, f.Bytes)
	case xtee.KindAny:
		return ctx.Interface(f.K, f.Any)
	default:
		return ctx.Interface(f.K, nil)
	}
}
