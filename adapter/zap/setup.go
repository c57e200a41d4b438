package zapadapter

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xtee"
)

// Config is the code-first setup for a zap-backed mirror.
type Config struct {
	Writer   io.Writer // default os.Stderr
	MinLevel xtee.Level
	Console  bool // zap's console encoder instead of JSON

	// EncoderConfig replaces the default encoder settings. Its TimeKey is
	// always cleared; the mirror supplies the timestamp.
	EncoderConfig *zapcore.EncoderConfig

	TimestampKey string // default "ts"
	Name         string // zap logger name, e.g. the script path
	Names        []string
	Hooks        []xtee.Hook
}

func defaultEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
}

// Use builds a zap logger from cfg and returns a Mirror over it, bound to
// xclock.Default().
func Use(cfg Config) *xtee.Mirror {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	encCfg := defaultEncoderConfig()
	if cfg.EncoderConfig != nil {
		encCfg = *cfg.EncoderConfig
	}
	encCfg.TimeKey = ""

	var enc zapcore.Encoder
	if cfg.Console {
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	al := zap.NewAtomicLevelAt(toZapLevel(cfg.MinLevel))
	zl := zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), al))
	if cfg.Name != "" {
		zl = zl.Named(cfg.Name)
	}

	ad := New(zl, WithAtomicLevel(&al), WithTimestampKey(cfg.TimestampKey))
	b := xtee.NewBuilder().
		WithAdapter(ad).
		WithMinLevel(cfg.MinLevel).
		WithClock(xclock.Default()).
		WithNames(cfg.Names...)
	for _, h := range cfg.Hooks {
		b.AddHook(h)
	}
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}
