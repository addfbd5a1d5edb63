package urlenc_test

import (
	"testing"

	"github.com/advdv/bserve/urlenc"
	"github.com/stretchr/testify/require"
)

func TestParseFlat(t *testing.T) {
	vals := urlenc.Parse("a=1&b=2")
	require.Equal(t, urlenc.Values{"a": "1", "b": "2"}, vals)
}

func TestParseMissingValue(t *testing.T) {
	vals := urlenc.Parse("a=&b")
	require.Equal(t, "", vals["a"])
	require.Equal(t, "", vals["b"])
}

func TestParseDecoding(t *testing.T) {
	vals := urlenc.Parse("msg=hello+world&sym=%24%26%3D&pct=100%25&bad=%zz")
	require.Equal(t, "hello world", vals["msg"])
	require.Equal(t, "$&=", vals["sym"])
	require.Equal(t, "100%", vals["pct"])
	require.Equal(t, "%zz", vals["bad"])
}

func TestParseEmpty(t *testing.T) {
	require.Empty(t, urlenc.Parse(""))
}

func TestGetTyped(t *testing.T) {
	vals := urlenc.Parse("n=41&f=2.5&on=true&s=txt")

	n, ok := urlenc.Get[int32](vals, "n")
	require.True(t, ok)
	require.Equal(t, int32(41), n)

	f, ok := urlenc.Get[float64](vals, "f")
	require.True(t, ok)
	require.Equal(t, 2.5, f)

	on, ok := urlenc.Get[bool](vals, "on")
	require.True(t, ok)
	require.True(t, on)

	s, ok := urlenc.Get[string](vals, "s")
	require.True(t, ok)
	require.Equal(t, "txt", s)

	_, ok = urlenc.Get[int32](vals, "s")
	require.False(t, ok)

	_, ok = urlenc.Get[string](vals, "missing")
	require.False(t, ok)
}

func TestDict(t *testing.T) {
	vals := urlenc.Parse("user[name]=ann&user[age]=30&other=x")

	dict := vals.Dict("user")
	require.Equal(t, urlenc.Values{"name": "ann", "age": "30"}, dict)
}

func TestSliceOrdered(t *testing.T) {
	vals := urlenc.Parse("tags[2]=c&tags[0]=a&tags[1]=b")
	require.Equal(t, []string{"a", "b", "c"}, vals.Slice("tags"))
}

func TestGetSliceTyped(t *testing.T) {
	vals := urlenc.Parse("ids[0]=3&ids[1]=nope&ids[2]=5")
	require.Equal(t, []int32{3, 5}, urlenc.GetSlice[int32](vals, "ids"))
}

func TestDictSlice(t *testing.T) {
	vals := urlenc.Parse("items[0][name]=a&items[0][qty]=1&items[1][name]=b")

	items := vals.DictSlice("items")
	require.Len(t, items, 2)
	require.Equal(t, urlenc.Values{"name": "a", "qty": "1"}, items[0])
	require.Equal(t, urlenc.Values{"name": "b"}, items[1])
}
