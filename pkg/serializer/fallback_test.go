package serializer

import (
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lk2023060901/garden-serializer/pkg/util/merr"
)

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type money struct {
	cents int64
}

func (m money) JSONValue() (any, error) {
	return map[string]any{"amount": float64(m.cents) / 100}, nil
}

type Status string

func TestDefaultRepresentation(t *testing.T) {
	cases := []struct {
		name   string
		object any
		want   any
	}{
		{"nil", nil, nil},
		{"nil pointer", (*Point)(nil), nil},
		{"int", 42, 42},
		{"bool", true, true},
		{"string", "text", "text"},
		{"named string", Status("active"), Status("active")},
		{"struct", Point{X: 1, Y: 2}, map[string]any{"x": json.Number("1"), "y": json.Number("2")}},
		{"slice", []int{1, 2}, []any{json.Number("1"), json.Number("2")}},
		{"valuer", money{cents: 250}, map[string]any{"amount": 2.5}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := DefaultRepresentation(c.object)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestDefaultRepresentationProto(t *testing.T) {
	msg, err := structpb.NewStruct(map[string]any{"name": "John", "age": 30})
	require.NoError(t, err)

	got, err := DefaultRepresentation(msg)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "John", "age": json.Number("30")}, got)
}

func TestDefaultRepresentationEncodeError(t *testing.T) {
	_, err := DefaultRepresentation(map[string]any{"ch": make(chan int)})
	assert.ErrorIs(t, err, merr.ErrEncodeFailed)
}

func TestFallbackSerializer(t *testing.T) {
	r := newTestResolver()

	out, err := r.Serialize(Root, Point{X: 1, Y: 2})
	require.NoError(t, err)
	assert.Equal(t, ObjectSerializerName, out.(*Instance).Definition().Name())
	assert.JSONEq(t, `{"x":1,"y":2}`, mustJSON(t, out))

	out, err = r.Serialize(Root, nil)
	require.NoError(t, err)
	assert.Equal(t, `null`, mustJSON(t, out))

	// 找不到序列化器时严格查找仍然报错
	_, err = r.LookupStrict(Root, Point{})
	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestCustomFallback(t *testing.T) {
	r := newTestResolver()
	custom, err := Build("RedactedSerializer", func(b *Builder) {
		b.Attribute("redacted", Compute(func(s *Instance) any { return true }))
	})
	require.NoError(t, err)
	r.Registry().SetFallback(custom)

	out, err := r.Serialize(Root, Point{X: 1})
	require.NoError(t, err)
	assert.Equal(t, `{"redacted":true}`, mustJSON(t, out))
}
