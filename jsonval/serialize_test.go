package jsonval

import (
	"math"
	"testing"

	"github.com/onagent/onagent/arena"
	"github.com/onagent/onagent/internal/testutil"
)

func TestSerializeScalars(t *testing.T) {
	testutil.RequireEqual(t, Serialize(NewNull(), SerializeOptions{}), "null", "null")
	testutil.RequireEqual(t, Serialize(NewBool(true), SerializeOptions{}), "true", "bool true")
	testutil.RequireEqual(t, Serialize(NewBool(false), SerializeOptions{}), "false", "bool false")
	testutil.RequireEqual(t, Serialize(NewInt(42), SerializeOptions{}), "42", "int")
	testutil.RequireEqual(t, Serialize(NewInt(-7), SerializeOptions{}), "-7", "negative int")
}

func TestSerializeWholeValuedFloatHasNoFraction(t *testing.T) {
	testutil.RequireEqual(t, Serialize(NewFloat(4.0), SerializeOptions{}), "4", "whole float")
}

func TestSerializeFractionalFloat(t *testing.T) {
	testutil.RequireEqual(t, Serialize(NewFloat(3.25), SerializeOptions{}), "3.25", "fractional float")
}

func TestSerializeNaNAndInfBecomeNull(t *testing.T) {
	testutil.RequireEqual(t, Serialize(NewFloat(math.NaN()), SerializeOptions{}), "null", "NaN")
	testutil.RequireEqual(t, Serialize(NewFloat(math.Inf(1)), SerializeOptions{}), "null", "+Inf")
	testutil.RequireEqual(t, Serialize(NewFloat(math.Inf(-1)), SerializeOptions{}), "null", "-Inf")
}

func TestSerializeStringEscaping(t *testing.T) {
	a := arena.New(0)
	v := NewStringCopy(a, "line\nbreak\ttab\"quote\\back")
	testutil.RequireEqual(t, Serialize(v, SerializeOptions{}), `"line\nbreak\ttab\"quote\\back"`, "escaped string")
}

func TestSerializeArray(t *testing.T) {
	arr := NewArray()
	arr.Append(NewInt(1))
	arr.Append(NewInt(2))
	arr.Append(NewInt(3))
	testutil.RequireEqual(t, Serialize(arr, SerializeOptions{}), "[1,2,3]", "compact array")
}

func TestSerializeEmptyArrayAndObject(t *testing.T) {
	testutil.RequireEqual(t, Serialize(NewArray(), SerializeOptions{}), "[]", "empty array")
	testutil.RequireEqual(t, Serialize(NewObject(), SerializeOptions{}), "{}", "empty object")
}

func TestSerializeObjectPreservesOrder(t *testing.T) {
	a := arena.New(0)
	obj := NewObject()
	obj.ObjectSet(a, "b", NewInt(2))
	obj.ObjectSet(a, "a", NewInt(1))
	testutil.RequireEqual(t, Serialize(obj, SerializeOptions{}), `{"b":2,"a":1}`, "insertion-order object")
}

func TestSerializePrettyIndentsNestedValues(t *testing.T) {
	a := arena.New(0)
	obj := NewObject()
	obj.ObjectSet(a, "x", NewInt(1))
	out := Serialize(obj, SerializeOptions{Pretty: true})
	testutil.RequireEqual(t, out, "{\n  \"x\": 1\n}", "pretty-printed object")
}

func TestParseSerializeRoundTrip(t *testing.T) {
	a := arena.New(0)
	src := `{"name":"lookup","args":{"query":"weather","limit":3,"strict":true,"tags":["a","b"],"meta":null}}`
	v, err := ParseString(a, src)
	testutil.RequireNoError(t, err, "parse")
	out := Serialize(v, SerializeOptions{})

	v2, err := ParseString(a, out)
	testutil.RequireNoError(t, err, "re-parse serialized output")
	testutil.RequireEqual(t, Serialize(v2, SerializeOptions{}), out, "stable under repeated round trip")
}
