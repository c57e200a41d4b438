package xtee

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var verbs = []string{"log", "error", "warn", "debug", "info"}

// taggedConsole appends "<PREFIX> <VERB>: <args>" lines to out for each name.
func taggedConsole(out *[]string, prefix string, names ...string) *Console {
	c := NewConsole()
	for _, name := range names {
		name := name
		c.Set(name, func(args ...any) {
			*out = append(*out, fmt.Sprintf("%s %s: %s", prefix, strings.ToUpper(name), Sprint(args...)))
		})
	}
	return c
}

func TestTee_EmptySource(t *testing.T) {
	t.Parallel()

	var out []string
	patched := Tee(NewConsole(), taggedConsole(&out, "DEBUGGER", verbs...))
	if n := patched.Len(); n != 0 {
		t.Fatalf("expected 0 members, got %d (%v)", n, patched.Names())
	}
}

func TestTee_NilSourceAndObserver(t *testing.T) {
	t.Parallel()

	if n := Tee(nil, nil).Len(); n != 0 {
		t.Fatalf("expected 0 members, got %d", n)
	}

	var out []string
	patched := Tee(taggedConsole(&out, "CONSOLE", "log"), nil)
	if err := patched.Call("log", "x"); err != nil {
		t.Fatalf("call: %v", err)
	}
	if diff := cmp.Diff([]string{"CONSOLE LOG: x"}, out); diff != "" {
		t.Fatalf("transcript mismatch (-want +got):\n%s", diff)
	}
}

func TestTee_UnrecognizedName(t *testing.T) {
	t.Parallel()

	var out []string
	src := taggedConsole(&out, "CONSOLE", "noLog")
	patched := Tee(src, taggedConsole(&out, "DEBUGGER", verbs...))

	if diff := cmp.Diff([]string{"noLog"}, patched.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if err := patched.Call("noLog", "quiet"); err != nil {
		t.Fatalf("call: %v", err)
	}
	// The observer has no noLog member, so only the source runs.
	if diff := cmp.Diff([]string{"CONSOLE NOLOG: quiet"}, out); diff != "" {
		t.Fatalf("transcript mismatch (-want +got):\n%s", diff)
	}
}

func TestTee_LogOnly(t *testing.T) {
	t.Parallel()

	var out []string
	patched := Tee(taggedConsole(&out, "CONSOLE", "log"), taggedConsole(&out, "DEBUGGER", verbs...))
	if err := patched.Call("log", "log test"); err != nil {
		t.Fatalf("call: %v", err)
	}
	want := []string{"CONSOLE LOG: log test", "DEBUGGER LOG: log test"}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("transcript mismatch (-want +got):\n%s", diff)
	}
}

func TestTee_CompleteConsole(t *testing.T) {
	t.Parallel()

	var out []string
	patched := Tee(taggedConsole(&out, "CONSOLE", verbs...), taggedConsole(&out, "DEBUGGER", verbs...))

	order := []string{"log", "info", "warn", "error", "debug"}
	for _, name := range order {
		if err := patched.Call(name, name+" test"); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}

	var want []string
	for _, name := range order {
		up := strings.ToUpper(name)
		want = append(want,
			fmt.Sprintf("CONSOLE %s: %s test", up, name),
			fmt.Sprintf("DEBUGGER %s: %s test", up, name),
		)
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("transcript mismatch (-want +got):\n%s", diff)
	}
}

func TestTee_KeepsSourceOrderAndDropsValues(t *testing.T) {
	t.Parallel()

	src := NewConsole().
		Set("warn", func(...any) {}).
		Set("level", 3).
		Set("log", func(...any) {}).
		Set("prefix", "js>").
		Set("nilFunc", Func(nil)).
		Set("custom", func(string, int) error { return nil })

	patched := Tee(src, nil)
	if diff := cmp.Diff([]string{"warn", "log", "custom"}, patched.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	for _, name := range patched.Names() {
		if _, ok := patched.Func(name); !ok {
			t.Fatalf("member %q is not callable", name)
		}
	}
}

func TestTee_NonCallableObserverMember(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	obs := NewConsole().Set("log", "not a function")
	patched := Tee(rec.Console("console", "log"), obs)

	if err := patched.Call("log", 1); err != nil {
		t.Fatalf("call: %v", err)
	}
	calls := rec.Calls()
	if len(calls) != 1 || calls[0].Tag != "console" {
		t.Fatalf("expected a single source call, got %+v", calls)
	}
}

func TestTee_SourceThenObserverOncePerCall(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	patched := Tee(rec.Console("console", verbs...), rec.Console("debugger", verbs...))

	for _, name := range verbs {
		if err := patched.Call(name, name); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}

	var want []Call
	for _, name := range verbs {
		want = append(want,
			Call{Tag: "console", Name: name, Args: []any{name}},
			Call{Tag: "debugger", Name: name, Args: []any{name}},
		)
	}
	if diff := cmp.Diff(want, rec.Calls(), cmpopts.IgnoreFields(Call{}, "At")); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestTee_VariadicPassThrough(t *testing.T) {
	t.Parallel()

	var srcArgs, obsArgs []any
	src := NewConsole().Set("log", func(args ...any) { srcArgs = args })
	obs := NewConsole().Set("log", func(args ...any) { obsArgs = args })

	payload := map[string]any{"x": 1}
	if err := Tee(src, obs).Call("log", "fmt %d", 2, payload, nil); err != nil {
		t.Fatalf("call: %v", err)
	}

	for name, got := range map[string][]any{"source": srcArgs, "observer": obsArgs} {
		if len(got) != 4 {
			// A single collected slice argument would show up as len 1.
			t.Fatalf("%s: expected 4 separate args, got %d: %#v", name, len(got), got)
		}
		if got[0] != "fmt %d" || got[1] != 2 || got[3] != nil {
			t.Fatalf("%s: args changed: %#v", name, got)
		}
		m, ok := got[2].(map[string]any)
		if !ok {
			t.Fatalf("%s: arg 2 type changed: %T", name, got[2])
		}
		m["seen-"+name] = true
	}
	// Same map value reached both sides.
	if payload["seen-source"] != true || payload["seen-observer"] != true {
		t.Fatalf("argument identity not preserved: %v", payload)
	}
}

func TestTee_TypeTransparency(t *testing.T) {
	t.Parallel()

	var srcType, obsType string
	src := NewConsole().Set("log", func(args ...any) { srcType = fmt.Sprintf("%T", args[0]) })
	obs := NewConsole().Set("log", func(args ...any) { obsType = fmt.Sprintf("%T", args[0]) })
	patched := Tee(src, obs)

	for _, tc := range []struct {
		arg  any
		want string
	}{
		{1, "int"},
		{"", "string"},
		{struct{}{}, "struct {}"},
		{map[string]any{}, "map[string]interface {}"},
	} {
		if err := patched.Call("log", tc.arg); err != nil {
			t.Fatalf("call: %v", err)
		}
		if srcType != tc.want || obsType != tc.want {
			t.Fatalf("type mismatch for %#v: source=%s observer=%s want=%s", tc.arg, srcType, obsType, tc.want)
		}
	}
}

func TestTee_FixedArityMembersIgnoreSurplusArgs(t *testing.T) {
	t.Parallel()

	var lines []string
	src := FromValue(fakeConsole{Prefix: "> ", lines: &lines})
	obs := NewConsole().Set("Log", func(msg string, n int) {
		lines = append(lines, fmt.Sprintf("obs %s %d", msg, n))
	})

	if err := Tee(src, obs).Call("Log", "a", 2, "b"); err != nil {
		t.Fatalf("call: %v", err)
	}
	if diff := cmp.Diff([]string{"> a", "obs a 2"}, lines); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestTee_ObserverSeesOwnArgsSlice(t *testing.T) {
	t.Parallel()

	var seen any
	src := NewConsole().Set("log", func(args ...any) { args[0] = "rewritten" })
	obs := NewConsole().Set("log", func(args ...any) { seen = args[0] })

	if err := Tee(src, obs).Call("log", "original"); err != nil {
		t.Fatalf("call: %v", err)
	}
	if seen != "original" {
		t.Fatalf("observer saw %v", seen)
	}
}

func TestTee_ObserverAddedBySourceSeesOriginalArgs(t *testing.T) {
	t.Parallel()

	var seen any
	obs := NewConsole()
	src := NewConsole().Set("log", func(args ...any) {
		obs.Set("log", func(args ...any) { seen = args[0] })
		args[0] = "rewritten"
	})

	if err := Tee(src, obs).Call("log", "original"); err != nil {
		t.Fatalf("call: %v", err)
	}
	if seen != "original" {
		t.Fatalf("observer saw %v", seen)
	}
}

func TestTee_NoLateBinding(t *testing.T) {
	t.Parallel()

	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	rec := NewRecorder()
	patched := Tee(rec.Console("src", names...), nil)

	for _, name := range names {
		if err := patched.Call(name); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
	calls := rec.Calls()
	if len(calls) != len(names) {
		t.Fatalf("expected %d calls, got %d", len(names), len(calls))
	}
	for i, c := range calls {
		if c.Name != names[i] {
			t.Fatalf("wrapper %q invoked member %q", names[i], c.Name)
		}
	}
}

func TestTee_SourceErrorStopsObserver(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	observed := false
	src := NewConsole().Set("error", func(...any) error { return boom })
	obs := NewConsole().Set("error", func(...any) { observed = true })

	err := Tee(src, obs).Call("error", "x")
	if err != boom {
		t.Fatalf("expected the source error verbatim, got %v", err)
	}
	if observed {
		t.Fatal("observer ran after a failing source")
	}
}

func TestTee_SourcePanicPropagates(t *testing.T) {
	t.Parallel()

	observed := false
	src := NewConsole().Set("log", func(...any) { panic("source panic") })
	obs := NewConsole().Set("log", func(...any) { observed = true })
	patched := Tee(src, obs)

	defer func() {
		if r := recover(); r != "source panic" {
			t.Fatalf("unexpected recover value %v", r)
		}
		if observed {
			t.Fatal("observer ran after a panicking source")
		}
	}()
	_ = patched.Call("log")
	t.Fatal("panic was swallowed")
}

func TestTee_ObserverErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("observer down")
	ran := false
	src := NewConsole().Set("warn", func(...any) { ran = true })
	obs := NewConsole().Set("warn", func(...any) error { return boom })

	if err := Tee(src, obs).Call("warn"); err != boom {
		t.Fatalf("expected observer error verbatim, got %v", err)
	}
	if !ran {
		t.Fatal("source did not run")
	}
}

func TestTee_ResolvesMembersAtCallTime(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	src := rec.Console("v1", "log")
	obs := NewConsole()
	patched := Tee(src, obs)

	// Late additions to the observer are honored; the patched name set is not.
	dbgLog, _ := rec.Console("dbg", "log").Func("log")
	obs.Set("log", dbgLog)
	src.Set("info", func(...any) {})

	if err := patched.Call("log", "a"); err != nil {
		t.Fatalf("call: %v", err)
	}
	if patched.Has("info") {
		t.Fatal("names added after patching must not appear")
	}
	got := rec.Calls()
	if len(got) != 2 || got[0].Tag != "v1" || got[1].Tag != "dbg" {
		t.Fatalf("unexpected calls %+v", got)
	}

	src.Set("log", "gone")
	if err := patched.Call("log"); !errors.Is(err, ErrNotCallable) {
		t.Fatalf("expected ErrNotCallable, got %v", err)
	}
}

func TestTee_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	src := NewConsole().Set("log", func(...any) {}).Set("x", 1)
	obs := NewConsole().Set("log", func(...any) {})
	_ = Tee(src, obs)

	if diff := cmp.Diff([]string{"log", "x"}, src.Names()); diff != "" {
		t.Fatalf("source changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"log"}, obs.Names()); diff != "" {
		t.Fatalf("observer changed (-want +got):\n%s", diff)
	}
}

func TestPatch_InstallsIntoEnvironment(t *testing.T) {
	t.Parallel()

	var out []string
	original := taggedConsole(&out, "CONSOLE", "log")
	env := &Environment{Console: original}

	Patch(env, env.Console, taggedConsole(&out, "DEBUGGER", "log"))
	if env.Console == original {
		t.Fatal("environment console was not replaced")
	}
	if err := env.Console.Call("log", "hi"); err != nil {
		t.Fatalf("call: %v", err)
	}
	want := []string{"CONSOLE LOG: hi", "DEBUGGER LOG: hi"}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("transcript mismatch (-want +got):\n%s", diff)
	}

	// Each patch allocates a new console.
	first := env.Console
	Patch(env, original, nil)
	if env.Console == first {
		t.Fatal("expected a fresh console per Patch")
	}
}
