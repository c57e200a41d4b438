// Package host runs a script in a goja runtime that carries the sample host
// surface: global, host.arguments, host.echo, host.throw, host.runScript
// and a console whose calls are teed into a debugger mirror.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dop251/goja"
	"github.com/fatih/color"

	"github.com/trickstertwo/xtee"
	gojatee "github.com/trickstertwo/xtee/adapter/goja"
)

// ConsoleNames are the members of the host console, in definition order.
var ConsoleNames = []string{"debug", "error", "info", "log", "warn"}

const sampleErrorMessage = "Sample error message"

// Options configures a Host.
type Options struct {
	Stdout io.Writer // default os.Stdout
	Args   []string  // script arguments after the script path

	// Mirror observes the script console. Nil, or ConsoleRedirect false,
	// leaves the console unpatched.
	Mirror          *xtee.Mirror
	ConsoleRedirect bool

	// Color enables red errors and yellow warnings on the host console.
	Color bool
}

// ScriptError is an uncaught script exception.
type ScriptError struct {
	Script  string
	Message string
	Value   any // exported thrown value
}

func (e *ScriptError) Error() string { return e.Message }

// Host owns one runtime. It is not safe for concurrent use.
type Host struct {
	vm   *goja.Runtime
	opts Options
	out  io.Writer
}

func New(opts Options) *Host {
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	return &Host{vm: goja.New(), opts: opts, out: out}
}

// Runtime exposes the underlying runtime, mainly for tests.
func (h *Host) Runtime() *goja.Runtime { return h.vm }

// RunFile reads and runs the script at path.
func (h *Host) RunFile(ctx context.Context, path string) (int, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return 1, fmt.Errorf("read script: %w", err)
	}
	return h.Run(ctx, path, string(src))
}

// Run installs the host surface, runs src and returns its completion value
// as an exit code (0 for undefined or null). An uncaught exception is
// returned as *ScriptError. Cancelling ctx interrupts the script.
func (h *Host) Run(ctx context.Context, name, src string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 1, err
	}
	if err := h.install(name); err != nil {
		return 1, fmt.Errorf("set up host: %w", err)
	}

	stop := context.AfterFunc(ctx, func() { h.vm.Interrupt(context.Cause(ctx)) })
	defer stop()

	v, err := h.vm.RunScript(name, src)
	if err != nil {
		return 1, h.scriptError(ctx, name, err)
	}
	return exitCode(v), nil
}

func (h *Host) scriptError(ctx context.Context, name string, err error) error {
	var ex *goja.Exception
	if errors.As(err, &ex) {
		return &ScriptError{Script: name, Message: h.message(ex.Value()), Value: ex.Value().Export()}
	}
	var ie *goja.InterruptedError
	if errors.As(err, &ie) {
		if cause := context.Cause(ctx); cause != nil {
			return fmt.Errorf("%s: interrupted: %w", name, cause)
		}
		return fmt.Errorf("%s: interrupted: %v", name, ie.Value())
	}
	return err
}

// message prefers the thrown value's message property, like the sample host.
func (h *Host) message(v goja.Value) string {
	if o, ok := v.(*goja.Object); ok {
		if m := o.Get("message"); m != nil && !goja.IsUndefined(m) {
			return m.String()
		}
	}
	return v.String()
}

func exitCode(v goja.Value) int {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return 0
	}
	return int(v.ToInteger())
}

func (h *Host) install(script string) error {
	vm := h.vm
	global := vm.GlobalObject()
	if err := global.Set("global", global); err != nil {
		return err
	}

	host := vm.NewObject()
	args := append([]string{script}, h.opts.Args...)
	members := []struct {
		name string
		v    any
	}{
		{"arguments", vm.NewArray(toAny(args)...)},
		{"echo", h.echo(nil)},
		{"runScript", h.runScript(filepath.Dir(script))},
		{"throw", h.throw},
	}
	for _, m := range members {
		if err := host.Set(m.name, m.v); err != nil {
			return err
		}
	}
	if err := global.Set("host", host); err != nil {
		return err
	}

	console := vm.NewObject()
	for _, name := range ConsoleNames {
		if err := console.Set(name, h.echo(h.colorFor(name))); err != nil {
			return err
		}
	}
	if err := global.Set("console", console); err != nil {
		return err
	}

	if !h.opts.ConsoleRedirect || h.opts.Mirror == nil {
		return nil
	}
	observer := gojatee.Import(vm, h.opts.Mirror.With(xtee.FStr("script", script)).Console())
	return gojatee.Patch(vm, global, console, observer)
}

func (h *Host) colorFor(name string) *color.Color {
	var c *color.Color
	switch name {
	case "error":
		c = color.New(color.FgRed)
	case "warn":
		c = color.New(color.FgYellow)
	default:
		return nil
	}
	if h.opts.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// echo prints its arguments converted to strings, space separated.
func (h *Host) echo(c *color.Color) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			parts[i] = a.String()
		}
		line := strings.Join(parts, " ")
		if c != nil {
			_, _ = c.Fprintln(h.out, line)
		} else {
			_, _ = fmt.Fprintln(h.out, line)
		}
		return goja.Undefined()
	}
}

// throw raises its first argument, or a sample Error when called bare.
func (h *Host) throw(call goja.FunctionCall) goja.Value {
	if len(call.Arguments) > 0 {
		panic(call.Arguments[0])
	}
	ctor, _ := goja.AssertConstructor(h.vm.Get("Error"))
	errObj, err := ctor(nil, h.vm.ToValue(sampleErrorMessage))
	if err != nil {
		panic(err)
	}
	panic(errObj)
}

// runScript runs another file in the same runtime and returns its
// completion value. Relative paths resolve against the calling script.
func (h *Host) runScript(dir string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(h.vm.NewTypeError("not enough arguments"))
		}
		path := call.Arguments[0].String()
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		src, err := os.ReadFile(path)
		if err != nil {
			panic(h.vm.NewGoError(fmt.Errorf("failed to run script: %w", err)))
		}
		v, err := h.vm.RunScript(path, string(src))
		if err != nil {
			var ex *goja.Exception
			if errors.As(err, &ex) {
				panic(ex.Value())
			}
			panic(err)
		}
		return v
	}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
