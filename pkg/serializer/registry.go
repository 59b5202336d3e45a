package serializer

import (
	"slices"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/lk2023060901/garden-serializer/pkg/log"
	"github.com/lk2023060901/garden-serializer/pkg/metrics"
	"github.com/lk2023060901/garden-serializer/pkg/util/merr"
	"github.com/lk2023060901/garden-serializer/pkg/util/nameutil"
)

// Any 是注册表中通用回退序列化器的占位名。
const Any = Name("*")

// Registry 保存按完整名称注册的序列化器定义。
// 注册通常发生在启动阶段；每次变更都会推进 generation，使此前缓存的解析结果失效。
type Registry struct {
	log.Binder

	mu          sync.RWMutex
	definitions map[string]*Definition
	fallback    *Definition
	generation  atomic.Uint64
}

func NewRegistry() *Registry {
	r := &Registry{
		definitions: make(map[string]*Definition),
		fallback:    newObjectSerializer(),
	}
	r.BindComponent("registry")
	return r
}

// Register 注册一个已经构建好的定义，名称重复时返回 ErrSerializerAlreadyExist。
func (r *Registry) Register(def *Definition) error {
	if def == nil {
		return merr.WrapErrParameterInvalid("definition", "nil")
	}
	if def.name == string(Any) {
		return merr.WrapErrSerializerInvalidName(def.name, "reserved name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.definitions[def.name]; ok {
		return merr.WrapErrSerializerAlreadyExist(def.name)
	}
	r.definitions[def.name] = def
	r.generation.Inc()
	metrics.SerializerRegisteredNum.Inc()

	r.Logger().Debug("serializer registered",
		log.FieldSerializer(def.name),
		zap.Strings("fields", def.FieldNames()))
	return nil
}

// Define 构建并注册一个定义。
func (r *Registry) Define(name string, build func(b *Builder)) (*Definition, error) {
	def, err := newDefinition(name, nil, build)
	if err != nil {
		return nil, err
	}
	if err := r.Register(def); err != nil {
		return nil, err
	}
	return def, nil
}

// Extend 以 parent 为父类型构建并注册一个定义，父类型的字段在定义时被复制。
func (r *Registry) Extend(parent *Definition, name string, build func(b *Builder)) (*Definition, error) {
	if parent == nil {
		return nil, merr.WrapErrParameterInvalid("parent definition", "nil")
	}
	def, err := newDefinition(name, parent, build)
	if err != nil {
		return nil, err
	}
	if err := r.Register(def); err != nil {
		return nil, err
	}
	return def, nil
}

// MustDefine 与 Define 相同，出错时 panic，适合在包初始化时使用。
func (r *Registry) MustDefine(name string, build func(b *Builder)) *Definition {
	def, err := r.Define(name, build)
	if err != nil {
		panic(err)
	}
	return def
}

func (r *Registry) MustExtend(parent *Definition, name string, build func(b *Builder)) *Definition {
	def, err := r.Extend(parent, name, build)
	if err != nil {
		panic(err)
	}
	return def
}

// Get 按名称获取定义，名称会先做规范化；Any 返回回退序列化器。
func (r *Registry) Get(name string) (*Definition, bool) {
	if name == string(Any) {
		return r.Fallback(), true
	}
	return r.get(nameutil.Canonical(name))
}

func (r *Registry) get(canonical string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[canonical]
	return def, ok
}

// Fallback 返回通用回退序列化器。
func (r *Registry) Fallback() *Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}

// SetFallback 替换通用回退序列化器。
func (r *Registry) SetFallback(def *Definition) {
	if def == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = def
	r.generation.Inc()
}

// Names 返回已注册的名称，按字典序排列。
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.definitions)
}

// Generation 在每次注册或替换回退序列化器后递增。
func (r *Registry) Generation() uint64 {
	return r.generation.Load()
}
