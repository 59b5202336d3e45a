package serializer

import (
	"maps"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/lk2023060901/garden-serializer/pkg/util/merr"
	"github.com/lk2023060901/garden-serializer/pkg/util/nameutil"
)

// Definition 是一个序列化器类型：有序的字段声明加上具名谓词。
// 由 Build/Define/Extend 创建，创建完成后不可变，可在多个 goroutine 间共享。
type Definition struct {
	name       string
	fields     []*Field
	index      map[string]int
	predicates map[string]func(s *Instance) bool
	parent     *Definition
	// represent 非空时整体替代字段遍历，用于通用回退序列化器
	represent func(s *Instance) (any, error)
}

// Build 创建一个不注册到任何 Registry 的定义，通常配合 WithSerializer/UsingSerializer 使用。
func Build(name string, build func(b *Builder)) (*Definition, error) {
	return newDefinition(name, nil, build)
}

func newDefinition(name string, parent *Definition, build func(b *Builder)) (*Definition, error) {
	canonical := nameutil.Canonical(name)
	if canonical == "" {
		return nil, merr.WrapErrSerializerInvalidName(name, "empty serializer name")
	}

	def := &Definition{
		name:       canonical,
		index:      make(map[string]int),
		predicates: make(map[string]func(s *Instance) bool),
		parent:     parent,
	}
	if parent != nil {
		// 子类型在定义时复制父类型的字段表，之后父子互不影响
		def.fields = slices.Clone(parent.fields)
		def.index = maps.Clone(parent.index)
		def.predicates = maps.Clone(parent.predicates)
	}

	b := &Builder{def: def}
	if build != nil {
		build(b)
	}
	if err := b.finish(); err != nil {
		return nil, errors.Wrapf(err, "define serializer %s", canonical)
	}
	return def, nil
}

// Name 返回规范化后的完整名称，例如 "Api::V1::UserSerializer"。
func (d *Definition) Name() string {
	return d.name
}

// Namespace 返回定义所在的命名空间。
func (d *Definition) Namespace() string {
	return nameutil.Namespace(d.name)
}

func (d *Definition) SimpleName() string {
	return nameutil.Base(d.name)
}

func (d *Definition) Parent() *Definition {
	return d.parent
}

// Fields 返回按输出顺序排列的字段声明。
func (d *Definition) Fields() []*Field {
	return slices.Clone(d.fields)
}

func (d *Definition) Field(name string) (*Field, bool) {
	idx, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.fields[idx], true
}

// FieldNames 返回按输出顺序排列的字段名。
func (d *Definition) FieldNames() []string {
	names := make([]string, len(d.fields))
	for i, f := range d.fields {
		names[i] = f.name
	}
	return names
}

// New 以 depth 0 和全局 maxDepth 构造实例，关联通过默认 Resolver 解析。
func (d *Definition) New(object any) *Instance {
	return Default().NewInstance(d, object, 0, DefaultMaxDepth())
}

func (d *Definition) String() string {
	return d.name
}
