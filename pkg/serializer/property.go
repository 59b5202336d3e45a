package serializer

import (
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/lk2023060901/garden-serializer/pkg/util/merr"
	"github.com/lk2023060901/garden-serializer/pkg/util/nameutil"
	"github.com/lk2023060901/garden-serializer/pkg/util/typeutil"
)

// PropertyReader 允许对象自行提供属性值，第二个返回值为 false 表示属性不存在。
type PropertyReader interface {
	SerializerProperty(name string) (any, bool)
}

const tagName = "serializer"

type accessorKey struct {
	typ  reflect.Type
	name string
}

type accessor func(v reflect.Value) (any, error)

var (
	accessors = typeutil.NewConcurrentMap[accessorKey, accessor]()
	errorType = reflect.TypeOf((*error)(nil)).Elem()
)

// readProperty 读取对象上的属性。结构体依次匹配 serializer 标签、json 标签、
// 无参方法、字段名、忽略大小写的 PascalCase 字段名。
func readProperty(object any, name string) (any, error) {
	if object == nil {
		return nil, merr.WrapErrFieldNotFound(name, "object is nil")
	}
	if reader, ok := object.(PropertyReader); ok {
		if v, ok := reader.SerializerProperty(name); ok {
			return v, nil
		}
		return nil, merr.WrapErrFieldNotFound(name)
	}

	rv := reflect.ValueOf(object)
	key := accessorKey{typ: rv.Type(), name: name}
	acc, ok := accessors.Get(key)
	if !ok {
		acc, _ = accessors.GetOrInsert(key, buildAccessor(rv.Type(), name))
	}
	return acc(rv)
}

func buildAccessor(t reflect.Type, name string) accessor {
	notFound := func(reflect.Value) (any, error) {
		return nil, merr.WrapErrFieldNotFound(name, "type "+t.String())
	}

	if t.Kind() == reflect.Map && t.Key().Kind() == reflect.String {
		key := reflect.ValueOf(name).Convert(t.Key())
		return func(v reflect.Value) (any, error) {
			mv := v.MapIndex(key)
			if !mv.IsValid() {
				return notFound(v)
			}
			return mv.Interface(), nil
		}
	}

	st := t
	for st.Kind() == reflect.Pointer {
		st = st.Elem()
	}

	if st.Kind() == reflect.Struct {
		if idx, ok := findTaggedField(st, name); ok {
			return fieldAccessor(idx)
		}
	}
	if m, ok := findMethod(t, name); ok {
		return methodAccessor(m)
	}
	if st.Kind() == reflect.Struct {
		if idx, ok := findNamedField(st, name); ok {
			return fieldAccessor(idx)
		}
	}
	return notFound
}

func fieldAccessor(index []int) accessor {
	return func(v reflect.Value) (any, error) {
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return nil, nil
			}
			v = v.Elem()
		}
		f, err := v.FieldByIndexErr(index)
		if err != nil {
			// 嵌入的指针为 nil
			return nil, nil
		}
		return f.Interface(), nil
	}
}

func methodAccessor(m reflect.Method) accessor {
	returnsErr := m.Type.NumOut() == 2
	return func(v reflect.Value) (any, error) {
		if v.Kind() == reflect.Pointer && v.IsNil() {
			return nil, nil
		}
		out := v.Method(m.Index).Call(nil)
		if returnsErr && !out[1].IsNil() {
			return nil, errors.Wrapf(out[1].Interface().(error), "call %s", m.Name)
		}
		return out[0].Interface(), nil
	}
}

// findMethod 查找名称与 PascalCase(name) 忽略大小写相等的无参导出方法，
// 返回值须为 T 或 (T, error)。
func findMethod(t reflect.Type, name string) (reflect.Method, bool) {
	want := nameutil.PascalCase(name)
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if !strings.EqualFold(m.Name, want) {
			continue
		}
		// 接收者占一个入参
		if m.Type.NumIn() != 1 {
			continue
		}
		switch m.Type.NumOut() {
		case 1:
			return m, true
		case 2:
			if m.Type.Out(1) == errorType {
				return m, true
			}
		}
	}
	return reflect.Method{}, false
}

func exportedFields(st reflect.Type) []reflect.StructField {
	var fields []reflect.StructField
	for _, f := range reflect.VisibleFields(st) {
		if f.IsExported() {
			fields = append(fields, f)
		}
	}
	return fields
}

// pick 返回满足条件且嵌套层级最浅的字段。
func pick(fields []reflect.StructField, match func(f reflect.StructField) bool) ([]int, bool) {
	var best []int
	for _, f := range fields {
		if !match(f) {
			continue
		}
		if best == nil || len(f.Index) < len(best) {
			best = f.Index
		}
	}
	return best, best != nil
}

func tagValue(f reflect.StructField, key string) string {
	tag, ok := f.Tag.Lookup(key)
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

func findTaggedField(st reflect.Type, name string) ([]int, bool) {
	fields := exportedFields(st)
	if idx, ok := pick(fields, func(f reflect.StructField) bool { return tagValue(f, tagName) == name }); ok {
		return idx, true
	}
	return pick(fields, func(f reflect.StructField) bool { return tagValue(f, "json") == name })
}

func findNamedField(st reflect.Type, name string) ([]int, bool) {
	fields := exportedFields(st)
	if idx, ok := pick(fields, func(f reflect.StructField) bool { return f.Name == name }); ok {
		return idx, true
	}
	want := nameutil.PascalCase(name)
	return pick(fields, func(f reflect.StructField) bool {
		return strings.EqualFold(f.Name, want) || strings.EqualFold(f.Name, name)
	})
}
