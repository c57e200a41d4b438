package gojatee

import (
	"errors"

	"github.com/dop251/goja"

	"github.com/trickstertwo/xtee"
)

// Export snapshots obj's enumerable members into a Go console. Functions
// become members that call back into the runtime with this bound to obj;
// a JS throw comes back as the *goja.Exception error. Other values are
// exported with goja's Export.
func Export(vm *goja.Runtime, obj *goja.Object) *xtee.Console {
	c := xtee.NewConsole()
	if obj == nil {
		return c
	}
	for _, name := range enumerableKeys(obj) {
		v := obj.Get(name)
		fn, ok := goja.AssertFunction(v)
		if !ok {
			c.Set(name, v.Export())
			continue
		}
		c.Set(name, xtee.Func(func(args ...any) error {
			in := make([]goja.Value, len(args))
			for i, a := range args {
				in[i] = vm.ToValue(a)
			}
			_, err := fn(obj, in...)
			return err
		}))
	}
	return c
}

// Import exposes a Go console to scripts. Callable members are looked up per
// call and receive the exported argument values; a returned error is thrown,
// rethrowing the original value when it wraps a *goja.Exception.
// Non-callable members are copied with ToValue.
func Import(vm *goja.Runtime, c *xtee.Console) *goja.Object {
	obj := vm.NewObject()
	c.Each(func(name string, v any) bool {
		if !xtee.IsCallable(v) {
			_ = obj.Set(name, vm.ToValue(v))
			return true
		}
		_ = obj.Set(name, func(call goja.FunctionCall) goja.Value {
			args := make([]any, len(call.Arguments))
			for i, a := range call.Arguments {
				args[i] = a.Export()
			}
			if err := c.Call(name, args...); err != nil {
				var ex *goja.Exception
				if errors.As(err, &ex) {
					panic(ex.Value())
				}
				panic(vm.NewGoError(err))
			}
			return goja.Undefined()
		})
		return true
	})
	return obj
}
