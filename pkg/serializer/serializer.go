package serializer

var (
	defaultRegistry = NewRegistry()
	defaultResolver = NewResolver(defaultRegistry)
)

// Default 返回进程级默认 Resolver，包级函数都通过它工作。
func Default() *Resolver {
	return defaultResolver
}

// DefaultRegistry 返回默认 Resolver 使用的注册表。
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Define 在默认注册表中定义序列化器。
func Define(name string, build func(b *Builder)) (*Definition, error) {
	return defaultRegistry.Define(name, build)
}

// Extend 在默认注册表中定义 parent 的子类型。
func Extend(parent *Definition, name string, build func(b *Builder)) (*Definition, error) {
	return defaultRegistry.Extend(parent, name, build)
}

func MustDefine(name string, build func(b *Builder)) *Definition {
	return defaultRegistry.MustDefine(name, build)
}

func MustExtend(parent *Definition, name string, build func(b *Builder)) *Definition {
	return defaultRegistry.MustExtend(parent, name, build)
}

// Serialize 参见 Resolver.Serialize。
func Serialize(caller Caller, object any, opts ...Option) (Serialized, error) {
	return defaultResolver.Serialize(caller, object, opts...)
}

// SerializeAll 参见 Resolver.SerializeAll。
func SerializeAll(caller Caller, objects any, opts ...Option) ([]any, error) {
	return defaultResolver.SerializeAll(caller, objects, opts...)
}

// Lookup 参见 Resolver.Lookup。
func Lookup(caller Caller, object any, opts ...Option) (*Definition, bool, error) {
	return defaultResolver.Lookup(caller, object, opts...)
}

// LookupStrict 参见 Resolver.LookupStrict。
func LookupStrict(caller Caller, object any, opts ...Option) (*Definition, error) {
	return defaultResolver.LookupStrict(caller, object, opts...)
}
