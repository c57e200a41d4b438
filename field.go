package xtee

import (
	"strconv"
	"sync"
	"time"
)

// Kind identifies the concrete type stored in a Field.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindInt64
	KindUint64
	KindFloat64
	KindBool
	KindDuration
	KindTime
	KindError
	KindBytes
	KindAny
)

// Field is a compact, reflection-free union for structured fields.
type Field struct {
	K       string
	Kind    Kind
	Str     string
	Int64   int64
	Uint64  uint64
	Float64 float64
	Bool    bool
	Dur     time.Duration
	Time    time.Time
	Err     error
	Bytes   []byte
	Any     any
}

func FStr(k, v string) Field               { return Field{K: k, Kind: KindString, Str: v} }
func FInt(k string, v int64) Field         { return Field{K: k, Kind: KindInt64, Int64: v} }
func FUint(k string, v uint64) Field       { return Field{K: k, Kind: KindUint64, Uint64: v} }
func FFloat(k string, v float64) Field     { return Field{K: k, Kind: KindFloat64, Float64: v} }
func FBool(k string, v bool) Field         { return Field{K: k, Kind: KindBool, Bool: v} }
func FDur(k string, v time.Duration) Field { return Field{K: k, Kind: KindDuration, Dur: v} }
func FTime(k string, v time.Time) Field    { return Field{K: k, Kind: KindTime, Time: v} }
func FErr(k string, err error) Field       { return Field{K: k, Kind: KindError, Err: err} }
func FBytes(k string, b []byte) Field      { return Field{K: k, Kind: KindBytes, Bytes: b} }
func FAny(k string, v any) Field           { return Field{K: k, Kind: KindAny, Any: v} }

// FieldOf picks the narrowest Kind for v so backends keep the argument's type.
func FieldOf(k string, v any) Field {
	switch x := v.(type) {
	case string:
		return FStr(k, x)
	case bool:
		return FBool(k, x)
	case int:
		return FInt(k, int64(x))
	case int8:
		return FInt(k, int64(x))
	case int16:
		return FInt(k, int64(x))
	case int32:
		return FInt(k, int64(x))
	case int64:
		return FInt(k, x)
	case uint:
		return FUint(k, uint64(x))
	case uint8:
		return FUint(k, uint64(x))
	case uint16:
		return FUint(k, uint64(x))
	case uint32:
		return FUint(k, uint64(x))
	case uint64:
		return FUint(k, x)
	case float32:
		return FFloat(k, float64(x))
	case float64:
		return FFloat(k, x)
	case time.Duration:
		return FDur(k, x)
	case time.Time:
		return FTime(k, x)
	case error:
		return FErr(k, x)
	case []byte:
		return FBytes(k, x)
	default:
		return FAny(k, v)
	}
}

// argKeys avoids formatting keys for the common small arities.
var argKeys = [...]string{"arg0", "arg1", "arg2", "arg3", "arg4", "arg5", "arg6", "arg7"}

func argKey(i int) string {
	if i < len(argKeys) {
		return argKeys[i]
	}
	return "arg" + strconv.Itoa(i)
}

var fieldsPool = sync.Pool{
	New: func() any { s := make([]Field, 0, 8); return &s },
}

// appendArgFields appends one positional field per argument.
func appendArgFields(dst []Field, args []any) []Field {
	for i, a := range args {
		dst = append(dst, FieldOf(argKey(i), a))
	}
	return dst
}

func getFields() *[]Field {
	p := fieldsPool.Get().(*[]Field)
	*p = (*p)[:0]
	return p
}

func putFields(p *[]Field) {
	// allow GC of large backing arrays by capping
	if cap(*p) > 128 {
		return
	}
	clear(*p)
	fieldsPool.Put(p)
}

func copyFields(dst, src []Field) []Field {
	if len(src) == 0 {
		return dst
	}
	return append(dst, src...)
}
