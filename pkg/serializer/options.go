package serializer

import (
	"github.com/lk2023060901/garden-serializer/pkg/util/merr"
)

// Option 配置一次序列化或查找调用。
type Option func(*callOptions)

type callOptions struct {
	overrides
	maxDepth    int
	hasMaxDepth bool
	concurrency int
}

// overrides 是调用点或关联字段上的查找覆盖项。
// namespace、variant 接受 string 或 Name；serializer 额外接受 *Definition。
type overrides struct {
	namespace  any
	serializer any
	variant    any
}

func newCallOptions(opts []Option) *callOptions {
	o := &callOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithNamespace 指定查找的命名空间。以 "::" 开头为绝对命名空间，否则拼接在调用方命名空间之后。
func WithNamespace(namespace any) Option {
	return func(o *callOptions) {
		o.namespace = namespace
	}
}

// WithSerializer 指定序列化器。传入 *Definition 时直接使用；
// 传入名称时按名称查找，名称中的命名空间段作为固定后缀参与逐级查找。
func WithSerializer(serializer any) Option {
	return func(o *callOptions) {
		o.serializer = serializer
	}
}

// WithVariant 用变体名替换目标类型名，例如对 User 指定 "Detailed" 会查找 DetailedSerializer。
func WithVariant(variant any) Option {
	return func(o *callOptions) {
		o.variant = variant
	}
}

// WithMaxDepth 覆盖本次调用的最大关联展开深度。
func WithMaxDepth(maxDepth int) Option {
	return func(o *callOptions) {
		o.maxDepth = maxDepth
		o.hasMaxDepth = true
	}
}

// WithConcurrency 对顶层集合按 n 个一批并发序列化元素，输出顺序不变。n <= 1 时串行。
func WithConcurrency(n int) Option {
	return func(o *callOptions) {
		o.concurrency = n
	}
}

func (o overrides) validate() error {
	switch o.namespace.(type) {
	case nil, string, Name:
	default:
		return merr.WrapErrSerializerInvalidOverride("namespace", o.namespace)
	}
	switch o.serializer.(type) {
	case nil, string, Name, *Definition:
	default:
		return merr.WrapErrSerializerInvalidOverride("serializer", o.serializer)
	}
	switch o.variant.(type) {
	case nil, string, Name:
	default:
		return merr.WrapErrSerializerInvalidOverride("variant", o.variant)
	}
	return nil
}

// definition 返回直接指定的序列化器定义。
func (o overrides) definition() *Definition {
	if def, ok := o.serializer.(*Definition); ok && def != nil {
		return def
	}
	return nil
}

func overrideString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case Name:
		return string(x), true
	default:
		return "", false
	}
}
