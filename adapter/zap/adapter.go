package zapadapter

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trickstertwo/xtee"
)

// Adapter forwards mirrored console calls to a *zap.Logger.
//
// Bound fields are attached to a child zap.Logger in With, so Log only
// converts the per-call fields. Log checks the level first and builds no
// fields for disabled calls. The mirror's timestamp is written as an
// RFC3339Nano string field because the encoder's own clock is disabled.
type Adapter struct {
	l     *zap.Logger
	al    *zap.AtomicLevel
	tsKey string
}

// Option tunes an Adapter.
type Option func(*Adapter)

// WithAtomicLevel lets SetMinLevel move the zap core's filter too.
func WithAtomicLevel(al *zap.AtomicLevel) Option {
	return func(a *Adapter) { a.al = al }
}

// WithTimestampKey overrides the "ts" field key.
func WithTimestampKey(key string) Option {
	return func(a *Adapter) {
		if key != "" {
			a.tsKey = key
		}
	}
}

func New(l *zap.Logger, opts ...Option) *Adapter {
	if l == nil {
		l = zap.NewNop()
	}
	a := &Adapter{l: l, tsKey: "ts"}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *Adapter) With(fs []xtee.Field) xtee.Adapter {
	child := *a
	if len(fs) > 0 {
		zfs := make([]zap.Field, len(fs))
		for i := range fs {
			zfs[i] = toZapField(&fs[i])
		}
		child.l = a.l.With(zfs...)
	}
	return &child
}

// Log never reaches zap's Fatal or Panic levels; LevelFatal is written as Error.
func (a *Adapter) Log(level xtee.Level, msg string, at time.Time, fields []xtee.Field) {
	ce := a.l.Check(toZapLevel(level), msg)
	if ce == nil {
		return
	}
	zfs := make([]zap.Field, 0, 1+len(fields))
	zfs = append(zfs, zap.String(a.tsKey, at.UTC().Format(time.RFC3339Nano)))
	for i := range fields {
		zfs = append(zfs, toZapField(&fields[i]))
	}
	ce.Write(zfs...)
}

// SetMinLevel is a no-op without WithAtomicLevel; the Mirror still filters.
func (a *Adapter) SetMinLevel(l xtee.Level) {
	if a.al != nil {
		a.al.SetLevel(toZapLevel(l))
	}
}

func toZapLevel(l xtee.Level) zapcore.Level {
	switch {
	case l <= xtee.LevelDebug: // zap has no trace
		return zapcore.DebugLevel
	case l <= xtee.LevelInfo:
		return zapcore.InfoLevel
	case l <= xtee.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

func toZapField(f *xtee.Field) zap.Field {
	switch f.Kind {
	case xtee.KindString:
		return zap.String(f.K, f.Str)
	case xtee.KindInt64:
		return zap.Int64(f.K, f.Int64)
	case xtee.KindUint64:
		return zap.Uint64(f.K, f.Uint64)
	case xtee.KindFloat64:
		return zap.Float64(f.K, f.Float64)
	case xtee.KindBool:
		return zap.Bool(f.K, f.Bool)
	case xtee.KindDuration:
		return zap.Duration(f.K, f.Dur)
	case xtee.KindTime:
		return zap.Time(f.K, f.Time)
	case xtee.KindError:
		if f.Err == nil {
			return zap.Skip()
		}
		return zap.NamedError(f.K, f.Err)
	case xtee.KindBytes:
		return zap.Binary(f.K, f.Bytes)
	case xtee.KindAny:
		return zap.Any(f.K, f.Any)
	default:
		return zap.Skip()
	}
}
