package serializer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/garden-serializer/internal/json"
)

func TestMap(t *testing.T) {
	m := NewMap(4)
	m.Set("b", 1)
	m.Set("a", "x")
	m.Set("b", 2)

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"b", "a"}, m.Keys())
	assert.True(t, m.Has("a"))
	assert.False(t, m.Has("c"))

	v, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	var visited []string
	m.Range(func(key string, _ any) bool {
		visited = append(visited, key)
		return false
	})
	assert.Equal(t, []string{"b"}, visited)
}

func TestMapMarshalJSON(t *testing.T) {
	inner := NewMap(1)
	inner.Set("z", true)

	m := NewMap(3)
	m.Set("zeta", "v")
	m.Set("alpha", []any{inner, nil})
	m.Set("mid", inner)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"v","alpha":[{"z":true},null],"mid":{"z":true}}`, string(data))

	var nilMap *Map
	data, err = nilMap.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestMapToMap(t *testing.T) {
	inner := NewMap(1)
	inner.Set("id", 1)

	m := NewMap(2)
	m.Set("user", inner)
	m.Set("posts", []any{inner})

	assert.Equal(t, map[string]any{
		"user":  map[string]any{"id": 1},
		"posts": []any{map[string]any{"id": 1}},
	}, m.ToMap())
}
