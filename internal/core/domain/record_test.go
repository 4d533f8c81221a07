package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_ZeroValueIsNull(t *testing.T) {
	var r Record
	assert.True(t, r.IsNull())
	assert.Equal(t, KindNull, r.Kind())
}

func TestRecord_ScalarAccessorsAreTotal(t *testing.T) {
	// Accessors on the wrong kind return zero values, never panic.
	r := String("hello")
	assert.Equal(t, "hello", r.AsString())
	assert.Equal(t, 0.0, r.AsNumber())
	assert.False(t, r.AsBool())
	assert.Equal(t, Null(), r.Get("anything"))
	assert.Equal(t, Null(), r.Index(0))
	assert.Equal(t, 0, r.Len())
}

func TestRecord_Text(t *testing.T) {
	assert.Equal(t, "hello", String("hello").Text())
	assert.Equal(t, "42", Number(42).Text())
	assert.Equal(t, "3.5", Number(3.5).Text())
	assert.Equal(t, "true", Bool(true).Text())
	assert.Equal(t, "", Null().Text())
	assert.Equal(t, "", List(String("x")).Text())
}

func TestRecord_MapPreservesKeyOrder(t *testing.T) {
	r := Map(
		Field{Key: "z", Value: String("1")},
		Field{Key: "a", Value: String("2")},
		Field{Key: "m", Value: String("3")},
	)
	assert.Equal(t, []string{"z", "a", "m"}, r.Keys())
	assert.Equal(t, "2", r.GetString("a"))
}

func TestRecord_MapRepeatedKeyKeepsPosition(t *testing.T) {
	r := Map(
		Field{Key: "a", Value: String("first")},
		Field{Key: "b", Value: String("x")},
		Field{Key: "a", Value: String("second")},
	)
	assert.Equal(t, []string{"a", "b"}, r.Keys())
	assert.Equal(t, "second", r.GetString("a"))
}

func TestRecord_GetTime(t *testing.T) {
	r := Map(
		Field{Key: "updated_at", Value: String("2024-06-01T12:00:00Z")},
		Field{Key: "bad", Value: String("yesterday")},
	)
	want := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, want, r.GetTime("updated_at"))
	assert.True(t, r.GetTime("bad").IsZero())
	assert.True(t, r.GetTime("missing").IsZero())
}

func TestDecodeRecord_PreservesObjectKeyOrder(t *testing.T) {
	data := []byte(`{"zeta": 1, "alpha": 2, "mid": {"b": true, "a": null}}`)
	r, err := DecodeRecord(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, r.Keys())
	assert.Equal(t, []string{"b", "a"}, r.Get("mid").Keys())
	assert.True(t, r.Get("mid").Get("b").AsBool())
	assert.True(t, r.Get("mid").Get("a").IsNull())
}

func TestDecodeRecord_AllShapes(t *testing.T) {
	data := []byte(`{"s": "text", "n": 2.5, "i": 7, "b": false, "nil": null, "l": [1, "two"]}`)
	r, err := DecodeRecord(data)
	require.NoError(t, err)

	assert.Equal(t, "text", r.GetString("s"))
	assert.Equal(t, 2.5, r.Get("n").AsNumber())
	assert.Equal(t, 7.0, r.Get("i").AsNumber())
	assert.Equal(t, KindBool, r.Get("b").Kind())
	assert.True(t, r.Get("nil").IsNull())
	require.Equal(t, 2, r.Get("l").Len())
	assert.Equal(t, "1", r.Get("l").Index(0).Text())
	assert.Equal(t, "two", r.Get("l").Index(1).AsString())
}

func TestDecodeRecord_TopLevelScalar(t *testing.T) {
	r, err := DecodeRecord([]byte(`"just a string"`))
	require.NoError(t, err)
	assert.Equal(t, "just a string", r.AsString())
}

func TestDecodeRecord_Invalid(t *testing.T) {
	_, err := DecodeRecord([]byte(`{"unterminated": `))
	assert.Error(t, err)

	_, err = DecodeRecord([]byte(`{} trailing`))
	assert.Error(t, err)
}

func TestEncodeRecord_RoundTrip(t *testing.T) {
	data := []byte(`{"zeta":1,"alpha":"two","mid":{"b":true,"a":null},"l":[1,2.5,"x"]}`)
	r, err := DecodeRecord(data)
	require.NoError(t, err)

	out, err := EncodeRecord(r)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(out))
}
