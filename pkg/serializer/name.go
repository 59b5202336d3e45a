package serializer

import (
	"reflect"
	"strings"

	"github.com/lk2023060901/garden-serializer/pkg/util/nameutil"
)

// Caller 是发起序列化的一方，其限定名决定查找的起始命名空间。
// 例如 "Api::V1::Admin::UsersController" 的命名空间为 "Api::V1::Admin"。
type Caller interface {
	QualifiedName() string
}

// Name 是字符串形式的限定名，可直接作为 Caller，也可用于 WithNamespace/WithSerializer/WithVariant。
type Name string

var _ Caller = Name("")

func (n Name) QualifiedName() string {
	return string(n)
}

func (n Name) String() string {
	return string(n)
}

// Root 表示位于根命名空间的调用方。
const Root = Name("")

// TypeNamer 允许对象自定义参与查找的类型名，类型名可以带命名空间，例如 "Chat::User"。
type TypeNamer interface {
	SerializerTypeName() string
}

func callerNamespace(caller Caller) []string {
	if caller == nil {
		return nil
	}
	if v := reflect.ValueOf(caller); v.Kind() == reflect.Pointer && v.IsNil() {
		return nil
	}
	segments, _ := nameutil.CanonicalSegments(caller.QualifiedName())
	if len(segments) <= 1 {
		return nil
	}
	return segments[:len(segments)-1]
}

// objectTypeName 返回对象参与查找的类型名，nil 与匿名类型返回空串。
func objectTypeName(object any) string {
	if object == nil {
		return ""
	}
	if namer, ok := object.(TypeNamer); ok {
		return namer.SerializerTypeName()
	}
	t := reflect.TypeOf(object)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	// 泛型实例化的类型名形如 "Page[main.User]"
	if idx := strings.IndexByte(name, '['); idx >= 0 {
		name = name[:idx]
	}
	return name
}
