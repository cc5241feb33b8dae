package jsonval

import (
	"testing"

	"github.com/onagent/onagent/arena"
	"github.com/onagent/onagent/internal/testutil"
)

func TestParseScalars(t *testing.T) {
	a := arena.New(0)

	v, err := ParseString(a, "null")
	testutil.RequireNoError(t, err, "parse null")
	testutil.RequireTrue(t, v.IsNull(), "null value")

	v, err = ParseString(a, "true")
	testutil.RequireNoError(t, err, "parse true")
	testutil.RequireEqual(t, v.GetBool(), true, "bool value")

	v, err = ParseString(a, "42")
	testutil.RequireNoError(t, err, "parse int")
	testutil.RequireEqual(t, v.Kind(), Int, "int kind")
	testutil.RequireEqual(t, v.GetInt(), int64(42), "int value")

	v, err = ParseString(a, "-3.5")
	testutil.RequireNoError(t, err, "parse float")
	testutil.RequireEqual(t, v.Kind(), Float, "float kind")
	testutil.RequireEqual(t, v.GetFloat(), -3.5, "float value")

	v, err = ParseString(a, "1e3")
	testutil.RequireNoError(t, err, "parse exponent")
	testutil.RequireEqual(t, v.Kind(), Float, "exponent forces float kind")
	testutil.RequireEqual(t, v.GetFloat(), 1000.0, "exponent value")
}

func TestParseStringEscapes(t *testing.T) {
	a := arena.New(0)
	v, err := ParseString(a, `"line\nbreak\ttab\"quote"`)
	testutil.RequireNoError(t, err, "parse escaped string")
	testutil.RequireEqual(t, v.GetString(), "line\nbreak\ttab\"quote", "decoded escapes")
}

func TestParseStringUnicodeEscape(t *testing.T) {
	a := arena.New(0)
	v, err := ParseString(a, "\"caf\\u00e9\"")
	testutil.RequireNoError(t, err, "parse unicode escape")
	testutil.RequireEqual(t, v.GetString(), "café", "decoded unicode escape")
}

func TestParseStringInvalidUnicodeEscapeIsLenient(t *testing.T) {
	a := arena.New(0)
	// \uZZZZ is not valid hex; the parser drops the backslash and keeps
	// "uZZZZ" as literal text instead of aborting.
	v, err := ParseString(a, `"bad\uZZZZend"`)
	testutil.RequireNoError(t, err, "invalid unicode escape does not abort parse")
	testutil.RequireEqual(t, v.GetString(), "baduZZZZend", "verbatim copy of invalid escape body")
}

func TestParseArray(t *testing.T) {
	a := arena.New(0)
	v, err := ParseString(a, "[1, 2, 3]")
	testutil.RequireNoError(t, err, "parse array")
	testutil.RequireEqual(t, v.Kind(), Array, "array kind")
	testutil.RequireEqual(t, v.Len(), 3, "array length")
	testutil.RequireEqual(t, v.Index(1).GetInt(), int64(2), "middle element")
}

func TestParseEmptyArrayAndObject(t *testing.T) {
	a := arena.New(0)
	v, err := ParseString(a, "[]")
	testutil.RequireNoError(t, err, "parse empty array")
	testutil.RequireEqual(t, v.Len(), 0, "empty array length")

	v, err = ParseString(a, "{}")
	testutil.RequireNoError(t, err, "parse empty object")
	testutil.RequireEqual(t, v.Len(), 0, "empty object length")
}

func TestParseNestedObject(t *testing.T) {
	a := arena.New(0)
	v, err := ParseString(a, `{"name": "tool", "args": {"x": 1, "nested": [true, false, null]}}`)
	testutil.RequireNoError(t, err, "parse nested object")
	name, ok := v.ObjectGet("name")
	testutil.RequireTrue(t, ok, "name present")
	testutil.RequireEqual(t, name.GetString(), "tool", "name value")

	args, ok := v.ObjectGet("args")
	testutil.RequireTrue(t, ok, "args present")
	x, ok := args.ObjectGet("x")
	testutil.RequireTrue(t, ok, "x present")
	testutil.RequireEqual(t, x.GetInt(), int64(1), "x value")

	nested, ok := args.ObjectGet("nested")
	testutil.RequireTrue(t, ok, "nested present")
	testutil.RequireEqual(t, nested.Len(), 3, "nested array length")
}

func TestParseTrailingContentIsError(t *testing.T) {
	a := arena.New(0)
	_, err := ParseString(a, "{} garbage")
	testutil.RequireTrue(t, err != nil, "trailing content after top-level value is an error")
	var perr *ParseError
	testutil.RequireTrue(t, asParseError(err, &perr), "error is a *ParseError")
}

func TestParseUnterminatedStringIsError(t *testing.T) {
	a := arena.New(0)
	_, err := ParseString(a, `"unterminated`)
	testutil.RequireTrue(t, err != nil, "unterminated string is an error")
}

func TestParseMismatchedBraceIsError(t *testing.T) {
	a := arena.New(0)
	_, err := ParseString(a, `{"a": 1`)
	testutil.RequireTrue(t, err != nil, "unterminated object is an error")
}

func TestParseErrorReportsOffset(t *testing.T) {
	a := arena.New(0)
	_, err := ParseString(a, `{"a": }`)
	testutil.RequireTrue(t, err != nil, "invalid value is an error")
	var perr *ParseError
	testutil.RequireTrue(t, asParseError(err, &perr), "error is a *ParseError")
	testutil.RequireTrue(t, perr.Offset > 0, "offset points past the opening brace")
}

func asParseError(err error, target **ParseError) bool {
	pe, ok := err.(*ParseError)
	if !ok {
		return false
	}
	*target = pe
	return true
}
