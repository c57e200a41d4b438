package xtee

import (
	"reflect"
	"sort"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// IsCallable reports whether v would be treated as a console function.
func IsCallable(v any) bool {
	_, ok := asFunc(v)
	return ok
}

// asFunc normalizes any non-nil Go func value into a Func. Common shapes are
// adapted directly; everything else goes through reflection.
func asFunc(v any) (Func, bool) {
	switch f := v.(type) {
	case nil:
		return nil, false
	case Func:
		return f, f != nil
	case func(...any) error:
		return f, f != nil
	case func(...any):
		if f == nil {
			return nil, false
		}
		return func(args ...any) error {
			f(args...)
			return nil
		}, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, false
	}
	return reflectFunc(rv), true
}

// reflectFunc calls fn with args spread over its parameters. Missing fixed
// parameters receive zero values. Extra arguments feed a variadic tail when
// there is one and are dropped otherwise, the way a script function ignores
// surplus arguments. A trailing error result is returned. Mismatched argument
// types panic inside reflect, as any bad Go call would.
func reflectFunc(fn reflect.Value) Func {
	t := fn.Type()
	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
	}
	returnsErr := t.NumOut() > 0 && t.Out(t.NumOut()-1) == errorType

	return func(args ...any) error {
		n := len(args)
		if n < fixed {
			n = fixed
		}
		if !t.IsVariadic() && n > fixed {
			n = fixed
		}
		in := make([]reflect.Value, n)
		for i := range in {
			pt := paramType(t, i)
			if i >= len(args) || args[i] == nil {
				in[i] = reflect.Zero(pt)
				continue
			}
			in[i] = reflect.ValueOf(args[i])
		}
		out := fn.Call(in)
		if returnsErr {
			if err, _ := out[len(out)-1].Interface().(error); err != nil {
				return err
			}
		}
		return nil
	}
}

// paramType is the type argument i binds to; i must be within the
// signature's arity (any index for a variadic signature).
func paramType(t reflect.Type, i int) reflect.Type {
	if last := t.NumIn() - 1; t.IsVariadic() && i >= last {
		return t.In(last).Elem()
	}
	return t.In(i)
}

// FromValue discovers a Console from an arbitrary Go value:
//
//   - *Console is returned as is
//   - maps with string keys contribute their entries, keys sorted
//   - structs (or pointers to them) contribute exported methods, then
//     exported fields in declaration order
//
// Anything else yields an empty console.
func FromValue(v any) *Console {
	if c, ok := v.(*Console); ok {
		if c == nil {
			return NewConsole()
		}
		return c
	}
	c := NewConsole()
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return c
	}

	if rv.Kind() == reflect.Map {
		if rv.Type().Key().Kind() != reflect.String {
			return c
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		for _, k := range keys {
			c.Set(k.String(), rv.MapIndex(k).Interface())
		}
		return c
	}

	// Methods come from the value as given so pointer receivers are included.
	rt := rv.Type()
	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		if !m.IsExported() {
			continue
		}
		c.Set(m.Name, reflectFunc(rv.Method(i)))
	}

	sv := rv
	for sv.Kind() == reflect.Pointer || sv.Kind() == reflect.Interface {
		if sv.IsNil() {
			return c
		}
		sv = sv.Elem()
	}
	if sv.Kind() != reflect.Struct {
		return c
	}
	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if !f.IsExported() || c.Has(f.Name) {
			continue
		}
		c.Set(f.Name, sv.Field(i).Interface())
	}
	return c
}
