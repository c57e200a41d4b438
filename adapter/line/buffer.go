package lineadapter

import (
	"encoding/base64"
	"math"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"
)

type buffer struct{ b []byte }

func (buf *buffer) writeString(s string) { buf.b = append(buf.b, s...) }
func (buf *buffer) writeByte(c byte)     { buf.b = append(buf.b, c) }
func (buf *buffer) writeBytes(p []byte)  { buf.b = append(buf.b, p...) }

var bufPool = sync.Pool{New: func() any { return &buffer{b: make([]byte, 0, 1024)} }}

func getBuf(initCap int) *buffer {
	buf := bufPool.Get().(*buffer)
	if cap(buf.b) < initCap {
		buf.b = make([]byte, 0, initCap)
	}
	buf.b = buf.b[:0]
	return buf
}

func putBuf(buf *buffer) {
	if cap(buf.b) <= 64*1024 {
		bufPool.Put(buf)
	}
}

const hexDigits = "0123456789abcdef"

func appendInt(buf *buffer, v int64)   { buf.b = strconv.AppendInt(buf.b, v, 10) }
func appendUint(buf *buffer, v uint64) { buf.b = strconv.AppendUint(buf.b, v, 10) }

func appendBool(buf *buffer, v bool) { buf.b = strconv.AppendBool(buf.b, v) }

// appendFloat writes NaN and infinities as text; JSON callers check first.
func appendFloat(buf *buffer, f float64, bits int) {
	switch {
	case math.IsNaN(f):
		buf.writeString("NaN")
	case math.IsInf(f, 1):
		buf.writeString("+Inf")
	case math.IsInf(f, -1):
		buf.writeString("-Inf")
	default:
		buf.b = strconv.AppendFloat(buf.b, f, 'g', -1, bits)
	}
}

func appendTime(buf *buffer, t time.Time, layout string) {
	if layout == "" {
		layout = time.RFC3339Nano
	}
	buf.b = t.AppendFormat(buf.b, layout)
}

func appendBase64(buf *buffer, data []byte) {
	buf.writeByte('"')
	n := base64.StdEncoding.EncodedLen(len(data))
	start := len(buf.b)
	buf.b = append(buf.b, make([]byte, n)...)
	base64.StdEncoding.Encode(buf.b[start:], data)
	buf.writeByte('"')
}

// appendQuoted writes s as a JSON string literal.
func appendQuoted(buf *buffer, s string) {
	buf.writeByte('"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c >= 0x20 && c != '\\' && c != '"' && c < utf8.RuneSelf {
			i++
			continue
		}
		if start < i {
			buf.writeString(s[start:i])
		}
		if c < utf8.RuneSelf {
			switch c {
			case '\\', '"':
				buf.writeByte('\\')
				buf.writeByte(c)
			case '\n':
				buf.writeString(`\n`)
			case '\r':
				buf.writeString(`\r`)
			case '\t':
				buf.writeString(`\t`)
			default:
				buf.writeString(`\u00`)
				buf.writeByte(hexDigits[c>>4])
				buf.writeByte(hexDigits[c&0xF])
			}
			i++
			start = i
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			buf.writeString(`\ufffd`)
		case r == '\u2028':
			buf.writeString(`\u2028`)
		case r == '\u2029':
			buf.writeString(`\u2029`)
		default:
			i += size
			continue
		}
		i += size
		start = i
	}
	buf.writeString(s[start:])
	buf.writeByte('"')
}

// appendTextString leaves bare words alone and quotes anything with spaces,
// quotes, '=' or control characters.
func appendTextString(buf *buffer, s string) {
	if s == "" {
		buf.writeString(`""`)
		return
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= ' ' || c == '"' || c == '=' || c == 0x7f {
			appendQuoted(buf, s)
			return
		}
	}
	buf.writeString(s)
}
