package json

import (
	stdjson "encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalSortsKeys(t *testing.T) {
	data, err := Marshal(map[string]any{"b": 1, "a": "x"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":1}`, string(data))
	assert.True(t, Valid(data))
	assert.False(t, Valid([]byte(`{"a":`)))
}

func TestUnmarshalUseNumber(t *testing.T) {
	var v any
	require.NoError(t, UnmarshalUseNumber([]byte(`{"id":9007199254740993}`), &v))
	m := v.(map[string]any)
	assert.Equal(t, stdjson.Number("9007199254740993"), m["id"])

	var plain map[string]any
	require.NoError(t, Unmarshal([]byte(`{"id":1}`), &plain))
	assert.Equal(t, float64(1), plain["id"])
}

func TestMarshalIndent(t *testing.T) {
	data, err := MarshalIndent(map[string]int{"a": 1}, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(data))
}
