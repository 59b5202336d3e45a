package serializer

import (
	"reflect"

	"github.com/lk2023060901/garden-serializer/internal/codec"
	"github.com/lk2023060901/garden-serializer/pkg/util/merr"
	"github.com/lk2023060901/garden-serializer/pkg/util/typeutil"
)

// ObjectSerializerName 是通用回退序列化器的名称。
const ObjectSerializerName = "ObjectSerializer"

// JSONValuer 允许对象自行给出在回退序列化时使用的 JSON 表示。
type JSONValuer interface {
	JSONValue() (any, error)
}

var scalarKinds = typeutil.NewSet(
	reflect.Bool,
	reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
	reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
	reflect.Float32, reflect.Float64,
	reflect.String,
)

func newObjectSerializer() *Definition {
	return &Definition{
		name:       ObjectSerializerName,
		index:      make(map[string]int),
		predicates: make(map[string]func(s *Instance) bool),
		represent: func(s *Instance) (any, error) {
			return DefaultRepresentation(s.object)
		},
	}
}

// DefaultRepresentation 返回对象自身的 JSON 表示：标量与 nil 原样返回，
// proto.Message 按 protojson 编码，其余对象编码后再解码为通用结构（数字保留为 json.Number）。
func DefaultRepresentation(object any) (any, error) {
	if isNil(object) {
		return nil, nil
	}
	if valuer, ok := object.(JSONValuer); ok {
		return valuer.JSONValue()
	}
	if scalarKinds.Contain(reflect.TypeOf(object).Kind()) {
		return object, nil
	}

	data, err := codec.For(object).Marshal(object)
	if err != nil {
		return nil, merr.WrapErrEncodeFailed(err)
	}

	var out any
	if err := (codec.JSONCodec{}).Unmarshal(data, &out); err != nil {
		return nil, merr.WrapErrEncodeFailed(err)
	}
	return out, nil
}

func isNil(object any) bool {
	if object == nil {
		return true
	}
	rv := reflect.ValueOf(object)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
