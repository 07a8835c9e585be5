package trackable

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ResolvePath(t *testing.T) {
	tr, err := New(map[string]any{"a": map[string]any{"b": map[string]any{}}})
	require.NoError(t, err)
	b := tr.Proxy().Lookup("a", "b").(*Node)

	assert.Equal(t, []string{"a", "b"}, tr.store.resolvePath(b, "", false))
	assert.Equal(t, []string{"a", "b", "k"}, tr.store.resolvePath(b, "k", true))
	assert.Equal(t, []string{}, tr.store.resolvePath(tr.container, "", false))
}

func TestStore_ResolvePathTornChain(t *testing.T) {
	tr, err := New(map[string]any{"a": map[string]any{"b": map[string]any{"c": map[string]any{}}}})
	require.NoError(t, err)
	c := tr.Proxy().Lookup("a", "b", "c").(*Node)

	// Drop the proxy entry only; the walk stops there instead of failing.
	tr.store.remove(tr.proxy)
	assert.Equal(t, []string{"c", "k"}, tr.store.resolvePath(c, "k", true))
}

func TestSameRef(t *testing.T) {
	m := map[string]any{}
	arr := make([]any, 2, 4)

	assert.True(t, sameRef(m, m))
	assert.False(t, sameRef(m, map[string]any{}))
	assert.True(t, sameRef(arr, arr))
	assert.False(t, sameRef(arr, arr[:1]), "length is part of array identity")
	assert.False(t, sameRef(arr, arr[:2:2]), "capacity is part of array identity")
	assert.False(t, sameRef(arr, append([]any(nil), arr...)))
	assert.False(t, sameRef(m, arr))
	assert.False(t, sameRef(1, 1), "scalars are never references")
}

func TestIsComposite(t *testing.T) {
	assert.True(t, isComposite(map[string]any{}))
	assert.True(t, isComposite([]any{}))
	assert.True(t, isComposite([]any(nil)))
	assert.False(t, isComposite(map[string]any(nil)))
	assert.False(t, isComposite(map[string]int{}))
	assert.False(t, isComposite([]string{}))
	assert.False(t, isComposite("x"))
}

func TestParseIndex(t *testing.T) {
	for _, key := range []string{"0", "7", "123"} {
		_, ok := parseIndex(key)
		assert.True(t, ok, key)
	}
	for _, key := range []string{"", "-1", "01", "+1", "1.0", "length", " 1"} {
		_, ok := parseIndex(key)
		assert.False(t, ok, key)
	}
}

func TestToInt(t *testing.T) {
	for _, v := range []any{3, int32(3), int64(3), uint(3), uint64(3), float32(3), 3.0} {
		got, ok := toInt(v)
		assert.True(t, ok, "%T", v)
		assert.Equal(t, 3, got)
	}
	for _, v := range []any{3.5, math.Inf(1), math.NaN(), 1e19, uint64(math.MaxUint64), "3", nil} {
		_, ok := toInt(v)
		assert.False(t, ok, "%v", v)
	}
}

func TestSpliceArgs(t *testing.T) {
	tests := []struct {
		name       string
		args       []any
		start, del int
		items      []any
	}{
		{"no args", nil, 0, 0, nil},
		{"start only", []any{1}, 1, 4, nil},
		{"negative start", []any{-2, 1}, 3, 1, []any{}},
		{"start past end", []any{10, 1}, 5, 0, []any{}},
		{"very negative start", []any{-10, 2}, 0, 2, []any{}},
		{"delete count clamped", []any{3, 100}, 3, 2, []any{}},
		{"negative delete count", []any{1, -1, "x"}, 1, 0, []any{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, del, items, err := spliceArgs(5, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.del, del)
			assert.Equal(t, tt.items, items)
		})
	}

	_, _, _, err := spliceArgs(5, []any{0, "many"})
	assert.Error(t, err)
}
