package bjson_test

import (
	"testing"
	"time"

	"github.com/advdv/bserve/bjson"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestParseObjectScalars(t *testing.T) {
	obj := bjson.ParseObject(`{"name": "A \"B\"", "age": 5}`)

	name, err := bjson.Get[string](obj, "name")
	require.NoError(t, err)
	require.Equal(t, `A "B"`, name)

	age, err := bjson.Get[int32](obj, "age")
	require.NoError(t, err)
	require.Equal(t, int32(5), age)
}

func TestParseObjectAllPrimitives(t *testing.T) {
	obj := bjson.ParseObject(`{
		"s": "hello",
		"i32": -42,
		"i64": 9007199254740993,
		"f32": 1.5,
		"f64": 3.14159,
		"yes": true,
		"no": false
	}`)

	s, err := bjson.Get[string](obj, "s")
	require.NoError(t, err)
	require.Equal(t, "hello", s)

	i32, err := bjson.Get[int32](obj, "i32")
	require.NoError(t, err)
	require.Equal(t, int32(-42), i32)

	i64, err := bjson.Get[int64](obj, "i64")
	require.NoError(t, err)
	require.Equal(t, int64(9007199254740993), i64)

	f32, err := bjson.Get[float32](obj, "f32")
	require.NoError(t, err)
	require.Equal(t, float32(1.5), f32)

	f64, err := bjson.Get[float64](obj, "f64")
	require.NoError(t, err)
	require.Equal(t, 3.14159, f64)

	yes, err := bjson.Get[bool](obj, "yes")
	require.NoError(t, err)
	require.True(t, yes)

	no, err := bjson.Get[bool](obj, "no")
	require.NoError(t, err)
	require.False(t, no)
}

func TestParseObjectNested(t *testing.T) {
	obj := bjson.ParseObject(`{"user": {"name": "ann", "tags": ["a", "b"]}, "ok": true}`)

	user, err := bjson.Get[*bjson.Object](obj, "user")
	require.NoError(t, err)

	name, err := bjson.Get[string](user, "name")
	require.NoError(t, err)
	require.Equal(t, "ann", name)

	tags, err := bjson.Slice[string](user, "tags")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, tags)

	ok, err := bjson.Get[bool](obj, "ok")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestParseObjectDelimitersInsideStrings(t *testing.T) {
	obj := bjson.ParseObject(`{"a": {"weird": "br}ace, and [bracket]"}, "b": 1}`)

	a, err := bjson.Get[*bjson.Object](obj, "a")
	require.NoError(t, err)

	weird, err := bjson.Get[string](a, "weird")
	require.NoError(t, err)
	require.Equal(t, "br}ace, and [bracket]", weird)

	b, err := bjson.Get[int32](obj, "b")
	require.NoError(t, err)
	require.Equal(t, int32(1), b)
}

func TestParseObjectEscapedBackslashBeforeQuote(t *testing.T) {
	// The value ends with an escaped backslash; the closing quote after it
	// must terminate the string.
	obj := bjson.ParseObject(`{"path": "C:\\", "n": 2}`)

	path, err := bjson.Get[string](obj, "path")
	require.NoError(t, err)
	require.Equal(t, `C:\`, path)

	n, err := bjson.Get[int32](obj, "n")
	require.NoError(t, err)
	require.Equal(t, int32(2), n)
}

func TestRepeatedKeyLastWins(t *testing.T) {
	obj := bjson.ParseObject(`{"k": 1, "k": 2}`)

	k, err := bjson.Get[int32](obj, "k")
	require.NoError(t, err)
	require.Equal(t, int32(2), k)
	require.Equal(t, 1, obj.Len())
}

func TestGetErrors(t *testing.T) {
	obj := bjson.ParseObject(`{"age": "five"}`)

	_, err := bjson.Get[int32](obj, "age")
	var parseErr *bjson.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.False(t, parseErr.NotFound())
	require.Equal(t, "age", parseErr.Key)

	_, err = bjson.Get[string](obj, "missing")
	require.ErrorAs(t, err, &parseErr)
	require.True(t, parseErr.NotFound())
	require.Equal(t, "missing", parseErr.Key)
}

func TestOpt(t *testing.T) {
	obj := bjson.ParseObject(`{"some": 3, "none": null}`)

	some, err := bjson.Opt[int32](obj, "some")
	require.NoError(t, err)
	require.NotNil(t, some)
	require.Equal(t, int32(3), *some)

	none, err := bjson.Opt[int32](obj, "none")
	require.NoError(t, err)
	require.Nil(t, none)

	absent, err := bjson.Opt[int32](obj, "absent")
	require.NoError(t, err)
	require.Nil(t, absent)
}

func TestParseArray(t *testing.T) {
	arr := bjson.ParseArray(`[1, 2, 3]`)
	require.Equal(t, 3, arr.Len())

	vals, err := bjson.Map[int32](arr)
	require.NoError(t, err)
	require.Equal(t, []int32{1, 2, 3}, vals)
}

func TestParseArrayOfObjects(t *testing.T) {
	arr := bjson.ParseArray(`[{"id": 1}, {"id": 2}]`)

	objs, err := bjson.Map[*bjson.Object](arr)
	require.NoError(t, err)
	require.Len(t, objs, 2)

	id, err := bjson.Get[int32](objs[1], "id")
	require.NoError(t, err)
	require.Equal(t, int32(2), id)
}

func TestParseArrayOfArrays(t *testing.T) {
	arr := bjson.ParseArray(`[[1,2],3]`)
	require.Equal(t, 2, arr.Len())

	first, err := bjson.At[*bjson.Array](arr, 0)
	require.NoError(t, err)

	vals, err := bjson.Map[int32](first)
	require.NoError(t, err)
	require.Equal(t, []int32{1, 2}, vals)

	last, err := bjson.At[int32](arr, 1)
	require.NoError(t, err)
	require.Equal(t, int32(3), last)
}

func TestRoundTripArrayOfArrays(t *testing.T) {
	inner := bjson.NewArray()
	inner.Append(int32(1))
	inner.Append(int32(2))

	arr := bjson.NewArray()
	arr.Append(inner)
	arr.Append(int32(3))
	require.Equal(t, `[[1,2],3]`, arr.String())

	back := bjson.ParseArray(arr.String())
	require.Equal(t, 2, back.Len())
	require.Equal(t, arr.String(), back.String())
}

func TestMapSingleFailureFailsAll(t *testing.T) {
	arr := bjson.ParseArray(`[1, "two", 3]`)

	_, err := bjson.Map[int32](arr)
	var parseErr *bjson.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "1", parseErr.Key)
}

func TestMapDropSkipsFailures(t *testing.T) {
	arr := bjson.ParseArray(`[1, "two", 3]`)
	require.Equal(t, []int32{1, 3}, bjson.MapDrop[int32](arr))
}

func TestAt(t *testing.T) {
	arr := bjson.ParseArray(`["x", "y"]`)

	y, err := bjson.At[string](arr, 1)
	require.NoError(t, err)
	require.Equal(t, "y", y)

	_, err = bjson.At[string](arr, 5)
	var parseErr *bjson.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.True(t, parseErr.NotFound())
}

func TestGetTimestamp(t *testing.T) {
	obj := bjson.ParseObject(`{"at": "2024-06-01T12:30:00Z"}`)

	at, err := bjson.Get[time.Time](obj, "at")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC), at)
}

func TestGetUUID(t *testing.T) {
	id := uuid.MustParse("2d59a2a5-8f0a-4f51-9428-e631c47d1b9d")
	obj := bjson.ParseObject(`{"id": "2d59a2a5-8f0a-4f51-9428-e631c47d1b9d"}`)

	got, err := bjson.Get[uuid.UUID](obj, "id")
	require.NoError(t, err)
	require.Equal(t, id, got)

	_, err = bjson.Get[uuid.UUID](bjson.ParseObject(`{"id": "nope"}`), "id")
	require.Error(t, err)
}

func TestEmptyInputs(t *testing.T) {
	require.Equal(t, 0, bjson.ParseObject(`{}`).Len())
	require.Equal(t, 0, bjson.ParseArray(`[]`).Len())
	require.Equal(t, 0, bjson.ParseObject(``).Len())
}
