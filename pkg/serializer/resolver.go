package serializer

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/lk2023060901/garden-serializer/pkg/log"
	"github.com/lk2023060901/garden-serializer/pkg/metrics"
	"github.com/lk2023060901/garden-serializer/pkg/util/conc"
	"github.com/lk2023060901/garden-serializer/pkg/util/merr"
	"github.com/lk2023060901/garden-serializer/pkg/util/nameutil"
	"github.com/lk2023060901/garden-serializer/pkg/util/typeutil"
)

// Resolver 为对象解析序列化器，并驱动序列化。解析结果按输入缓存，进程内不淘汰。
type Resolver struct {
	log.Binder

	registry *Registry
	cache    *typeutil.ConcurrentMap[cacheKey, *resolution]
	group    singleflight.Group
	// 已告警过的目标名，严格查找失败只告警一次
	warned *typeutil.ConcurrentSet[string]

	poolOnce sync.Once
	pool     *conc.Pool[any]
}

// cacheKey 覆盖影响解析结果的全部输入。generation 变化后旧条目不再可达。
type cacheKey struct {
	generation   uint64
	caller       string
	objectType   reflect.Type
	objectName   string
	namespace    string
	hasNamespace bool
	serializer   string
	variant      string
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%d|%s|%v|%s|%t:%s|%s|%s",
		k.generation, k.caller, k.objectType, k.objectName, k.hasNamespace, k.namespace, k.serializer, k.variant)
}

// resolution 是一次查找的结果，def 为 nil 表示未找到。
type resolution struct {
	def        *Definition
	target     lookupTarget
	candidates []string
}

func NewResolver(registry *Registry) *Resolver {
	r := &Resolver{
		registry: registry,
		cache:    typeutil.NewConcurrentMap[cacheKey, *resolution](),
		warned:   typeutil.NewConcurrentSet[string](),
	}
	r.BindComponent("resolver")
	return r
}

func (r *Resolver) Registry() *Registry {
	return r.registry
}

// CacheLen 返回缓存的解析结果数量。
func (r *Resolver) CacheLen() int {
	return r.cache.Len()
}

// NewInstance 在指定深度上构造实例，关联通过当前 Resolver 解析。
func (r *Resolver) NewInstance(def *Definition, object any, depth, maxDepth int) *Instance {
	return &Instance{
		def:      def,
		object:   object,
		depth:    depth,
		maxDepth: maxDepth,
		resolver: r,
	}
}

// Lookup 查找对象的序列化器，找不到时返回 false，不回退。
// 覆盖项类型不合法时返回 ErrSerializerInvalidOverride。
func (r *Resolver) Lookup(caller Caller, object any, opts ...Option) (*Definition, bool, error) {
	o := newCallOptions(opts)
	res, err := r.resolve(caller, object, o.overrides)
	if err != nil {
		return nil, false, err
	}
	return res.def, res.def != nil, nil
}

// LookupStrict 查找对象的序列化器，找不到时返回 *NotFoundError。
func (r *Resolver) LookupStrict(caller Caller, object any, opts ...Option) (*Definition, error) {
	o := newCallOptions(opts)
	res, err := r.resolve(caller, object, o.overrides)
	if err != nil {
		return nil, err
	}
	if res.def == nil {
		metrics.SerializerNotFoundTotal.Inc()
		notFound := newNotFoundError(res.target, res.candidates)
		if r.warned.Insert(notFound.Target) {
			r.Logger().Warn("serializer not found",
				zap.String("object", notFound.Object),
				zap.String("namespace", notFound.Namespace),
				zap.Strings("candidates", notFound.Candidates))
		}
		return nil, notFound
	}
	return res.def, nil
}

// Serialize 为对象（或集合中的每个元素）解析序列化器并返回未求值的结果，
// 调用 AsJSON/ToJSON 时才计算字段。找不到序列化器时使用回退序列化器。
func (r *Resolver) Serialize(caller Caller, object any, opts ...Option) (Serialized, error) {
	o := newCallOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}
	return r.serialize(caller, object, o.overrides, 0, r.effectiveMaxDepth(o), o.concurrency)
}

// SerializeAll 序列化一个切片或数组，返回与输入顺序一致的 JSON 值序列。nil 视为空集合。
func (r *Resolver) SerializeAll(caller Caller, objects any, opts ...Option) ([]any, error) {
	o := newCallOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}
	if objects == nil {
		return []any{}, nil
	}
	items, ok := collectionItems(objects)
	if !ok {
		return nil, merr.WrapErrParameterInvalid("slice or array", fmt.Sprintf("%T", objects))
	}
	c, err := r.serializeCollection(caller, items, o.overrides, 0, r.effectiveMaxDepth(o), o.concurrency)
	if err != nil {
		return nil, err
	}
	out, err := c.AsJSON()
	if err != nil {
		return nil, err
	}
	return out.([]any), nil
}

func (r *Resolver) serialize(caller Caller, object any, o overrides, depth, maxDepth, concurrency int) (Serialized, error) {
	if items, ok := collectionItems(object); ok {
		return r.serializeCollection(caller, items, o, depth, maxDepth, concurrency)
	}
	// nil 与 nil 指针直接输出 null，不参与解析
	if isNil(object) && o.definition() == nil {
		return r.NewInstance(r.registry.Fallback(), nil, depth, maxDepth), nil
	}

	res, err := r.resolve(caller, object, o)
	if err != nil {
		return nil, err
	}
	def := res.def
	if def == nil {
		def = r.registry.Fallback()
		metrics.SerializerFallbackTotal.Inc()
		r.Logger().RatedDebug(10, "serializer not found, fall back to generic serializer",
			zap.String("object", res.target.object),
			zap.Strings("candidates", res.candidates))
	}
	return r.NewInstance(def, object, depth, maxDepth), nil
}

func (r *Resolver) serializeCollection(caller Caller, items []any, o overrides, depth, maxDepth, concurrency int) (*Collection, error) {
	c := &Collection{
		items:       make([]Serialized, 0, len(items)),
		resolver:    r,
		depth:       depth,
		concurrency: concurrency,
	}
	for _, item := range items {
		// 嵌套集合总是串行
		s, err := r.serialize(caller, item, o, depth, maxDepth, 0)
		if err != nil {
			return nil, err
		}
		c.items = append(c.items, s)
	}
	return c, nil
}

func (r *Resolver) resolve(caller Caller, object any, o overrides) (*resolution, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	if def := o.definition(); def != nil {
		return &resolution{def: def}, nil
	}

	callerNS := callerNamespace(caller)
	target, ok := newLookupTarget(callerNS, object, o)
	if !ok {
		return &resolution{target: target}, nil
	}

	namespace, hasNamespace := overrideString(o.namespace)
	serializerName, _ := overrideString(o.serializer)
	variant, _ := overrideString(o.variant)
	key := cacheKey{
		generation:   r.registry.Generation(),
		caller:       nameutil.JoinPath(callerNS...),
		objectType:   reflect.TypeOf(object),
		objectName:   objectTypeName(object),
		namespace:    namespace,
		hasNamespace: hasNamespace,
		serializer:   serializerName,
		variant:      variant,
	}

	if res, ok := r.cache.Get(key); ok {
		metrics.SerializerResolveTotal.WithLabelValues(metrics.CacheHitLabel).Inc()
		return res, nil
	}
	metrics.SerializerResolveTotal.WithLabelValues(metrics.CacheMissLabel).Inc()

	// 合并同一个 key 的并发未命中；key 的字符串形式可能碰撞，所以结果总是从缓存中按原 key 读取
	r.group.Do(key.String(), func() (any, error) {
		r.cache.GetOrInsert(key, r.search(target))
		return nil, nil
	})
	if res, ok := r.cache.Get(key); ok {
		return res, nil
	}
	res, _ := r.cache.GetOrInsert(key, r.search(target))
	return res, nil
}

// search 沿候选链查找第一个已注册的定义。
func (r *Resolver) search(target lookupTarget) *resolution {
	candidates := target.candidates()
	for _, name := range candidates {
		if def, ok := r.registry.get(name); ok {
			r.Logger().Debug("serializer resolved",
				zap.String("object", target.object),
				zap.String("namespace", target.namespace()),
				log.FieldSerializer(def.name))
			return &resolution{def: def, target: target, candidates: candidates}
		}
	}
	return &resolution{target: target, candidates: candidates}
}

func (r *Resolver) effectiveMaxDepth(o *callOptions) int {
	maxDepth := DefaultMaxDepth()
	if o.hasMaxDepth {
		maxDepth = o.maxDepth
	}
	if maxDepth < 0 {
		return 0
	}
	if limit := MaxDepthLimit(); maxDepth > limit {
		r.Logger().RatedWarn(1, "max depth exceeds limit, clamped",
			zap.Int("maxDepth", maxDepth),
			zap.Int("limit", limit))
		return limit
	}
	return maxDepth
}

// workerPool 惰性创建顶层集合并发序列化使用的协程池。
func (r *Resolver) workerPool() *conc.Pool[any] {
	r.poolOnce.Do(func() {
		r.pool = conc.NewDefaultPool[any](
			conc.WithConcealPanic(true),
			conc.WithExpiryDuration(time.Minute),
		)
	})
	return r.pool
}
