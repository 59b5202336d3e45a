package serializer

import (
	"strings"

	"github.com/lk2023060901/garden-serializer/pkg/util/merr"
)

// Builder 在定义阶段收集字段声明，方法可链式调用。
// 同名字段再次声明时原位替换，保留首次声明（或继承）时的位置。
type Builder struct {
	def  *Definition
	errs []error
}

// Attribute 声明一个属性。
func (b *Builder) Attribute(name string, opts ...FieldOption) *Builder {
	b.add(AttributeField, name, opts)
	return b
}

// Attributes 以默认选项声明多个属性。
func (b *Builder) Attributes(names ...string) *Builder {
	return b.AttributesWith(names)
}

// AttributesWith 以同一组选项声明多个属性。
func (b *Builder) AttributesWith(names []string, opts ...FieldOption) *Builder {
	for _, name := range names {
		b.add(AttributeField, name, opts)
	}
	return b
}

// Association 声明一个关联。
func (b *Builder) Association(name string, opts ...FieldOption) *Builder {
	b.add(AssociationField, name, opts)
	return b
}

func (b *Builder) Associations(names ...string) *Builder {
	return b.AssociationsWith(names)
}

func (b *Builder) AssociationsWith(names []string, opts ...FieldOption) *Builder {
	for _, name := range names {
		b.add(AssociationField, name, opts)
	}
	return b
}

// BelongsTo 是 Associations 的别名。
func (b *Builder) BelongsTo(names ...string) *Builder {
	return b.Associations(names...)
}

// HasOne 是 Associations 的别名。
func (b *Builder) HasOne(names ...string) *Builder {
	return b.Associations(names...)
}

// HasMany 是 Associations 的别名。
func (b *Builder) HasMany(names ...string) *Builder {
	return b.Associations(names...)
}

// Predicate 注册具名谓词，供 IfPredicate/UnlessPredicate 引用。子类型会继承，也可以覆盖。
func (b *Builder) Predicate(name string, fn func(s *Instance) bool) *Builder {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		b.errs = append(b.errs, merr.WrapErrParameterInvalid("named predicate", name, "invalid predicate"))
		return b
	}
	b.def.predicates[name] = fn
	return b
}

func (b *Builder) add(kind FieldKind, name string, opts []FieldOption) {
	name = strings.TrimSpace(name)
	if name == "" {
		b.errs = append(b.errs, merr.WrapErrFieldInvalidName(name, "empty field name"))
		return
	}

	cfg := &fieldConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if kind == AttributeField && len(cfg.associationOnly) > 0 {
		b.errs = append(b.errs, merr.WrapErrFieldInvalidOption(name, strings.Join(cfg.associationOnly, ","), "only associations accept lookup overrides"))
		return
	}
	if err := cfg.overrides.validate(); err != nil {
		b.errs = append(b.errs, err)
		return
	}

	produce := cfg.produce
	if produce == nil {
		produce = func(s *Instance) (any, error) {
			return s.Get(name)
		}
	}

	field := &Field{
		name:      name,
		kind:      kind,
		produce:   produce,
		includeIf: cfg.includeIf,
		excludeIf: cfg.excludeIf,
		overrides: cfg.overrides,
	}
	if idx, ok := b.def.index[name]; ok {
		b.def.fields[idx] = field
		return
	}
	b.def.index[name] = len(b.def.fields)
	b.def.fields = append(b.def.fields, field)
}

// finish 校验谓词引用，谓词可以在字段之后注册，所以放在最后检查。
func (b *Builder) finish() error {
	for _, f := range b.def.fields {
		for _, c := range []condition{f.includeIf, f.excludeIf} {
			if c.predicate == "" {
				continue
			}
			if _, ok := b.def.predicates[c.predicate]; !ok {
				b.errs = append(b.errs, merr.WrapErrPredicateNotFound(b.def.name, c.predicate))
			}
		}
	}
	return merr.Combine(b.errs...)
}
