package lineadapter

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/trickstertwo/xtee"
)

// encoder writes one complete line, newline included. bound is the already
// encoded suffix of bound fields for the same format.
type encoder func(buf *buffer, level xtee.Level, msg string, at time.Time, bound []byte, fields []xtee.Field, opts *Options)

func encoderFor(f Format) encoder {
	if f == FormatJSON {
		return encodeJSONLine
	}
	return encodeTextLine
}

// encodeFields renders fields the way they would follow a line's prefix.
func encodeFields(f Format, fields []xtee.Field, opts *Options) []byte {
	if len(fields) == 0 {
		return nil
	}
	buf := getBuf(256)
	defer putBuf(buf)
	for i := range fields {
		if f == FormatJSON {
			appendJSONField(buf, &fields[i])
		} else {
			appendTextField(buf, &fields[i], opts)
		}
	}
	return append([]byte(nil), buf.b...)
}

func encodeTextLine(buf *buffer, level xtee.Level, msg string, at time.Time, bound []byte, fields []xtee.Field, opts *Options) {
	buf.writeString("ts=")
	appendTime(buf, at, opts.TimeFormat)
	buf.writeString(" level=")
	buf.writeString(level.String())
	buf.writeString(" msg=")
	appendTextString(buf, msg)
	buf.writeBytes(bound)
	for i := range fields {
		appendTextField(buf, &fields[i], opts)
	}
	buf.writeByte('\n')
}

func appendTextField(buf *buffer, f *xtee.Field, opts *Options) {
	buf.writeByte(' ')
	buf.writeString(f.K)
	buf.writeByte('=')
	switch f.Kind {
	case xtee.KindString:
		appendTextString(buf, f.Str)
	case xtee.KindInt64:
		appendInt(buf, f.Int64)
	case xtee.KindUint64:
		appendUint(buf, f.Uint64)
	case xtee.KindFloat64:
		appendFloat(buf, f.Float64, 64)
	case xtee.KindBool:
		appendBool(buf, f.Bool)
	case xtee.KindDuration:
		buf.writeString(f.Dur.String())
	case xtee.KindTime:
		appendTime(buf, f.Time, opts.TimeFormat)
	case xtee.KindError:
		if f.Err == nil {
			buf.writeString("null")
			return
		}
		appendQuoted(buf, f.Err.Error())
	case xtee.KindBytes:
		buf.writeString("len:")
		appendInt(buf, int64(len(f.Bytes)))
	case xtee.KindAny:
		if f.Any == nil {
			buf.writeString("null")
			return
		}
		appendTextString(buf, fmt.Sprint(f.Any))
	default:
		buf.writeString("null")
	}
}

func encodeJSONLine(buf *buffer, level xtee.Level, msg string, at time.Time, bound []byte, fields []xtee.Field, _ *Options) {
	buf.writeString(`{"ts":"`)
	appendTime(buf, at, time.RFC3339Nano)
	buf.writeString(`","level":"`)
	buf.writeString(level.String())
	buf.writeString(`","msg":`)
	appendQuoted(buf, msg)
	buf.writeBytes(bound)
	for i := range fields {
		appendJSONField(buf, &fields[i])
	}
	buf.writeString("}\n")
}

func appendJSONField(buf *buffer, f *xtee.Field) {
	buf.writeByte(',')
	appendQuoted(buf, f.K)
	buf.writeByte(':')
	switch f.Kind {
	case xtee.KindString:
		appendQuoted(buf, f.Str)
	case xtee.KindInt64:
		appendInt(buf, f.Int64)
	case xtee.KindUint64:
		appendUint(buf, f.Uint64)
	case xtee.KindFloat64:
		appendJSONFloat(buf, f.Float64, 64)
	case xtee.KindBool:
		appendBool(buf, f.Bool)
	case xtee.KindDuration:
		appendQuoted(buf, f.Dur.String())
	case xtee.KindTime:
		buf.writeByte('"')
		appendTime(buf, f.Time, time.RFC3339Nano)
		buf.writeByte('"')
	case xtee.KindError:
		if f.Err == nil {
			buf.writeString("null")
			return
		}
		appendQuoted(buf, f.Err.Error())
	case xtee.KindBytes:
		appendBase64(buf, f.Bytes)
	case xtee.KindAny:
		appendJSONAny(buf, f.Any)
	default:
		buf.writeString("null")
	}
}

func appendJSONFloat(buf *buffer, v float64, bits int) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		buf.writeString("null")
		return
	}
	appendFloat(buf, v, bits)
}

func appendJSONAny(buf *buffer, v any) {
	switch x := v.(type) {
	case nil:
		buf.writeString("null")
	case RawJSON:
		if len(x) == 0 {
			buf.writeString("null")
			return
		}
		buf.writeBytes(x)
	case float32:
		appendJSONFloat(buf, float64(x), 32)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			// Unencodable script values (funcs, cycles) still produce a line.
			appendQuoted(buf, fmt.Sprint(v))
			return
		}
		buf.writeBytes(data)
	}
}
