package jsonval

import (
	"math"
	"strconv"

	"github.com/onagent/onagent/strutil"
)

// SerializeOptions controls Serialize's output formatting.
type SerializeOptions struct {
	// Pretty enables 2-space indentation and newlines between
	// array/object members. Compact (the zero value) emits the
	// minimal representation.
	Pretty bool
}

// Serialize renders v as canonical JSON text.
func Serialize(v *Value, opts SerializeOptions) string {
	b := strutil.NewBuilder(64)
	writeValue(b, v, opts, 0)
	return b.String()
}

func writeIndent(b *strutil.Builder, opts SerializeOptions, depth int) {
	if !opts.Pretty {
		return
	}
	b.WriteByte('\n')
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func writeValue(b *strutil.Builder, v *Value, opts SerializeOptions, depth int) {
	if v == nil {
		b.WriteString("null")
		return
	}
	switch v.kind {
	case Null:
		b.WriteString("null")
	case Bool:
		if v.b {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case Int:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case Float:
		b.WriteString(formatFloat(v.f))
	case String:
		writeString(b, v.s.String())
	case Array:
		writeArray(b, v, opts, depth)
	case Object:
		writeObject(b, v, opts, depth)
	}
}

// formatFloat renders whole-valued doubles without a fractional part
// and otherwise uses up to 15 significant digits. NaN and +/-Inf have
// no JSON representation and serialize as null.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'g', 15, 64)
}

var escapeTable = map[byte]string{
	'"':  `\"`,
	'\\': `\\`,
	'\b': `\b`,
	'\f': `\f`,
	'\n': `\n`,
	'\r': `\r`,
	'\t': `\t`,
}

func writeString(b *strutil.Builder, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if esc, ok := escapeTable[c]; ok {
			b.WriteString(esc)
			continue
		}
		if c < 0x20 {
			b.Writef("\\u%04x", c)
			continue
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
}

func writeArray(b *strutil.Builder, v *Value, opts SerializeOptions, depth int) {
	if len(v.arr) == 0 {
		b.WriteString("[]")
		return
	}
	b.WriteByte('[')
	for i, elem := range v.arr {
		if i > 0 {
			b.WriteByte(',')
		}
		writeIndent(b, opts, depth+1)
		writeValue(b, elem, opts, depth+1)
	}
	writeIndent(b, opts, depth)
	b.WriteByte(']')
}

func writeObject(b *strutil.Builder, v *Value, opts SerializeOptions, depth int) {
	if len(v.obj) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteByte('{')
	for i, e := range v.obj {
		if i > 0 {
			b.WriteByte(',')
		}
		writeIndent(b, opts, depth+1)
		writeString(b, e.Key.String())
		b.WriteByte(':')
		if opts.Pretty {
			b.WriteByte(' ')
		}
		writeValue(b, e.Value, opts, depth+1)
	}
	writeIndent(b, opts, depth)
	b.WriteByte('}')
}
