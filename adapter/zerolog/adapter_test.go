package zerologadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xtee"
)

func decode(t *testing.T, line []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(line, &m); err != nil {
		t.Fatalf("json unmarshal: %v; line=%s", err, line)
	}
	return m
}

func TestZerologAdapter_JSON_EmitsTSAndFields(t *testing.T) {
	var buf bytes.Buffer
	a := NewWithTimestampKey(zerolog.New(&buf), "ts")

	at := time.Date(2024, 12, 31, 23, 59, 59, 123456789, time.UTC)
	a.Log(xtee.LevelInfo, "state changed", at, []xtee.Field{
		xtee.FStr("method", "info"),
		xtee.FInt("arg1", 2),
		xtee.FBool("ok", true),
		xtee.FDur("dur", time.Millisecond),
		xtee.FErr("arg0", errors.New("boom")),
		xtee.FAny("obj", map[string]int{"a": 1}),
	})

	m := decode(t, buf.Bytes())
	if m["level"] != "info" || m["message"] != "state changed" {
		t.Fatalf("header mismatch: %v", m)
	}
	if m["ts"] != at.Format(time.RFC3339Nano) {
		t.Fatalf("ts mismatch: %v", m["ts"])
	}
	if m["method"] != "info" || m["arg1"] != float64(2) || m["ok"] != true || m["dur"] != "1ms" || m["arg0"] != "boom" {
		t.Fatalf("field mismatch: %v", m)
	}
	if obj, _ := m["obj"].(map[string]any); obj["a"] != float64(1) {
		t.Fatalf("obj mismatch: %v", m["obj"])
	}
}

func TestZerologAdapter_WithBoundFields(t *testing.T) {
	var buf bytes.Buffer
	a := New(zerolog.New(&buf))

	child := a.With([]xtee.Field{xtee.FStr("script", "main.js"), xtee.FErr("cause", errors.New("x"))})
	child.Log(xtee.LevelInfo, "ok", time.Unix(0, 0), []xtee.Field{xtee.FStr("method", "log")})

	m := decode(t, buf.Bytes())
	if m["script"] != "main.js" || m["cause"] != "x" || m["method"] != "log" {
		t.Fatalf("bound + call fields missing: %v", m)
	}
	if _, ok := m[zerolog.TimestampFieldName]; !ok {
		t.Fatalf("timestamp key %q missing: %v", zerolog.TimestampFieldName, m)
	}
}

func TestZerologAdapter_LevelsAndFatal(t *testing.T) {
	var buf bytes.Buffer
	a := New(zerolog.New(&buf))
	a.SetMinLevel(xtee.LevelWarn)

	a.Log(xtee.LevelInfo, "filtered", time.Now(), nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %s", buf.String())
	}
	a.Log(xtee.LevelFatal, "not fatal", time.Now(), nil)
	if m := decode(t, buf.Bytes()); m["level"] != "error" {
		t.Fatalf("fatal should map to error: %v", m)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("XTEE_LEVEL", "debug")
	t.Setenv("XTEE_CONSOLE", "1")
	t.Setenv("XTEE_CONSOLE_TIMEFORMAT", time.Kitchen)

	var buf bytes.Buffer
	a := FromEnv(&buf)
	a.Log(xtee.LevelTrace, "hidden", time.Now(), nil)
	a.Log(xtee.LevelDebug, "shown", time.Date(2025, 1, 1, 15, 4, 0, 0, time.Local), []xtee.Field{xtee.FStr("method", "debug")})

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("trace should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "method=debug") {
		t.Fatalf("console output missing record: %q", out)
	}
}

func TestFromEnv_BadLevel(t *testing.T) {
	t.Setenv("XTEE_LEVEL", "loud")
	t.Setenv("XTEE_CONSOLE", "")

	var buf bytes.Buffer
	a := FromEnv(&buf)
	a.Log(xtee.LevelDebug, "hidden", time.Now(), nil)
	a.Log(xtee.LevelInfo, "shown", time.Now(), nil)
	if m := decode(t, buf.Bytes()); m["message"] != "shown" {
		t.Fatalf("unexpected record %v", m)
	}
}

func TestUse_TeeIntoZerolog(t *testing.T) {
	old := xclock.Default()
	defer xclock.SetDefault(old)
	ft := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	xclock.SetDefault(xclock.NewFrozen(ft))

	var buf bytes.Buffer
	m := Use(Config{Writer: &buf, MinLevel: xtee.LevelTrace})

	console := xtee.Tee(xtee.NewRecorder().Console("console", "trace", "error"), m.Console())
	_ = console.Call("trace", "deep")
	_ = console.Call("error", errors.New("bad"), 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	first, second := decode(t, []byte(lines[0])), decode(t, []byte(lines[1]))
	if first["level"] != "trace" || first["message"] != "deep" || first[zerolog.TimestampFieldName] != "2025-01-01T00:00:00Z" {
		t.Fatalf("unexpected trace record %v", first)
	}
	if second["level"] != "error" || second["message"] != "bad 3" || second["arg0"] != "bad" || second["arg1"] != float64(3) {
		t.Fatalf("unexpected error record %v", second)
	}
}
