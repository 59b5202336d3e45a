package serializer

import (
	"strings"
)

// FieldKind 区分属性与关联。
type FieldKind int8

const (
	AttributeField FieldKind = iota
	AssociationField
)

func (k FieldKind) String() string {
	switch k {
	case AttributeField:
		return "attribute"
	case AssociationField:
		return "association"
	default:
		return "unknown"
	}
}

// Producer 计算字段取值。
type Producer func(s *Instance) (any, error)

// Field 是一条字段声明，定义完成后不可变。
type Field struct {
	name      string
	kind      FieldKind
	produce   Producer
	includeIf condition
	excludeIf condition
	overrides overrides
}

func (f *Field) Name() string {
	return f.name
}

func (f *Field) Kind() FieldKind {
	return f.kind
}

func (f *Field) IsAssociation() bool {
	return f.kind == AssociationField
}

// Namespace 返回关联字段上的命名空间覆盖项。
func (f *Field) Namespace() any {
	return f.overrides.namespace
}

// Serializer 返回关联字段上的序列化器覆盖项。
func (f *Field) Serializer() any {
	return f.overrides.serializer
}

// Variant 返回关联字段上的变体覆盖项。
func (f *Field) Variant() any {
	return f.overrides.variant
}

// FieldOption 配置一条字段声明。
type FieldOption func(*fieldConfig)

type fieldConfig struct {
	produce   Producer
	includeIf condition
	excludeIf condition
	overrides overrides
	// 设置过的仅对关联有效的选项名
	associationOnly []string
}

// If 仅当 fn 返回 true 时输出字段。
func If(fn func(s *Instance) bool) FieldOption {
	return func(c *fieldConfig) {
		c.includeIf = condition{plain: fn}
	}
}

// IfValue 与 If 相同，但 fn 额外收到字段的输出值；关联字段收到的是序列化后的结果。
func IfValue(fn func(s *Instance, value any) bool) FieldOption {
	return func(c *fieldConfig) {
		c.includeIf = condition{valued: fn}
	}
}

// IfPredicate 引用定义上通过 Builder.Predicate 注册的具名谓词。
func IfPredicate(name string) FieldOption {
	return func(c *fieldConfig) {
		c.includeIf = condition{predicate: strings.TrimSpace(name)}
	}
}

// Unless 当 fn 返回 true 时省略字段。
func Unless(fn func(s *Instance) bool) FieldOption {
	return func(c *fieldConfig) {
		c.excludeIf = condition{plain: fn}
	}
}

func UnlessValue(fn func(s *Instance, value any) bool) FieldOption {
	return func(c *fieldConfig) {
		c.excludeIf = condition{valued: fn}
	}
}

func UnlessPredicate(name string) FieldOption {
	return func(c *fieldConfig) {
		c.excludeIf = condition{predicate: strings.TrimSpace(name)}
	}
}

// Value 使用自定义的取值函数，替代默认的同名属性读取。
func Value(produce Producer) FieldOption {
	return func(c *fieldConfig) {
		c.produce = produce
	}
}

// Compute 是 Value 的无错误版本。
func Compute(fn func(s *Instance) any) FieldOption {
	return func(c *fieldConfig) {
		c.produce = func(s *Instance) (any, error) {
			return fn(s), nil
		}
	}
}

// InNamespace 指定关联查找序列化器时使用的命名空间。
func InNamespace(namespace any) FieldOption {
	return func(c *fieldConfig) {
		c.overrides.namespace = namespace
		c.associationOnly = append(c.associationOnly, "namespace")
	}
}

// UsingSerializer 指定关联使用的序列化器（名称或 *Definition）。
func UsingSerializer(serializer any) FieldOption {
	return func(c *fieldConfig) {
		c.overrides.serializer = serializer
		c.associationOnly = append(c.associationOnly, "serializer")
	}
}

// AsVariant 指定关联查找时使用的变体名。
func AsVariant(variant any) FieldOption {
	return func(c *fieldConfig) {
		c.overrides.variant = variant
		c.associationOnly = append(c.associationOnly, "variant")
	}
}
