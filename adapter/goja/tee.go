// Package gojatee applies the console tee to live goja objects and bridges
// goja objects and xtee consoles in both directions.
//
// A goja.Runtime is not safe for concurrent use; nothing here adds locking.
package gojatee

import (
	"github.com/dop251/goja"
)

// Patch sets global.console to Tee(vm, console, observer). A console or
// observer that is undefined or null counts as absent.
func Patch(vm *goja.Runtime, global *goja.Object, console, observer goja.Value) error {
	return global.Set("console", Tee(vm, toObject(vm, console), toObject(vm, observer)))
}

// Register exposes Patch to scripts as a global function
// name(global, console, observer).
func Register(vm *goja.Runtime, name string) error {
	return vm.Set(name, func(call goja.FunctionCall) goja.Value {
		global := toObject(vm, call.Argument(0))
		if global == nil {
			panic(vm.NewTypeError("%s: global must be an object", name))
		}
		if err := Patch(vm, global, call.Argument(1), call.Argument(2)); err != nil {
			panic(vm.NewGoError(err))
		}
		return goja.Undefined()
	})
}

// Tee returns a new object with one wrapper per enumerable function-valued
// property of console, inherited ones included. A wrapper calls console[name]
// with this bound to console and the received arguments, then observer[name]
// the same way when that is a function. A value thrown by either call is
// rethrown unchanged and stops the wrapper.
func Tee(vm *goja.Runtime, console, observer *goja.Object) *goja.Object {
	out := vm.NewObject()
	if console == nil {
		return out
	}
	for _, name := range enumerableKeys(console) {
		if _, ok := goja.AssertFunction(console.Get(name)); !ok {
			continue
		}
		_ = out.Set(name, forward(vm, name, console, observer))
	}
	return out
}

func forward(vm *goja.Runtime, name string, console, observer *goja.Object) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		src, ok := goja.AssertFunction(console.Get(name))
		if !ok {
			panic(vm.NewTypeError("console.%s is not a function", name))
		}
		if _, err := src(console, call.Arguments...); err != nil {
			rethrow(err)
		}
		if observer == nil {
			return goja.Undefined()
		}
		obs, ok := goja.AssertFunction(observer.Get(name))
		if !ok {
			return goja.Undefined()
		}
		if _, err := obs(observer, call.Arguments...); err != nil {
			rethrow(err)
		}
		return goja.Undefined()
	}
}

// rethrow continues unwinding from inside a native function. A JS exception
// is rethrown with its original value; anything else (interrupts) is
// re-panicked for the runtime to handle.
func rethrow(err error) {
	if ex, ok := err.(*goja.Exception); ok {
		panic(ex.Value())
	}
	panic(err)
}

// enumerableKeys lists own enumerable keys followed by inherited ones,
// skipping names already seen closer to the object.
func enumerableKeys(obj *goja.Object) []string {
	var keys []string
	seen := make(map[string]struct{})
	for o := obj; o != nil; o = o.Prototype() {
		for _, k := range o.Keys() {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	return keys
}

func toObject(vm *goja.Runtime, v goja.Value) *goja.Object {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	if o, ok := v.(*goja.Object); ok {
		return o
	}
	return v.ToObject(vm)
}
