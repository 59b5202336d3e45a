package serializer

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/lk2023060901/garden-serializer/internal/json"
	"github.com/lk2023060901/garden-serializer/pkg/metrics"
	"github.com/lk2023060901/garden-serializer/pkg/util/merr"
)

// Serialized 是序列化调用的结果：单个对象为 *Instance，集合为 *Collection。
type Serialized interface {
	// AsJSON 返回可直接编码的结构：*Map、[]any 或标量。
	AsJSON() (any, error)
	// ToJSON 返回 JSON 文本。
	ToJSON() ([]byte, error)
}

var (
	_ Serialized = (*Instance)(nil)
	_ Caller     = (*Instance)(nil)
)

// Instance 把一个定义绑定到一个目标对象上，不持有对象所有权，每次调用创建。
// Instance 也是 Caller：关联相对于定义所在的命名空间查找。
type Instance struct {
	def      *Definition
	object   any
	depth    int
	maxDepth int
	resolver *Resolver
}

func (s *Instance) QualifiedName() string {
	if s == nil || s.def == nil {
		return ""
	}
	return s.def.name
}

func (s *Instance) Definition() *Definition {
	return s.def
}

func (s *Instance) Object() any {
	return s.object
}

func (s *Instance) Depth() int {
	return s.depth
}

func (s *Instance) MaxDepth() int {
	return s.maxDepth
}

// Get 读取目标对象上的同名属性，这也是字段的默认取值方式。
func (s *Instance) Get(name string) (any, error) {
	return readProperty(s.object, name)
}

// AsJSON 按声明顺序计算字段，返回 *Map；回退序列化器返回对象自身的 JSON 表示。
func (s *Instance) AsJSON() (any, error) {
	if s.depth == 0 {
		start := time.Now()
		defer func() {
			metrics.SerializeLatency.WithLabelValues(metrics.ObjectLabel).Observe(sinceMs(start))
		}()
	}

	if s.def.represent != nil {
		return s.def.represent(s)
	}

	out := NewMap(len(s.def.fields))
	for _, f := range s.def.fields {
		value, ok, err := s.evaluate(f)
		if err != nil {
			return nil, err
		}
		if ok {
			out.Set(f.name, value)
		}
	}
	return out, nil
}

func (s *Instance) ToJSON() ([]byte, error) {
	return encode(s)
}

// evaluate 计算单个字段，第二个返回值表示字段是否输出。
// 带值条件收到的是字段的输出值，关联字段即为已序列化的结果。
func (s *Instance) evaluate(f *Field) (any, bool, error) {
	if f.kind == AssociationField && s.depth+1 > s.maxDepth {
		return nil, false, nil
	}

	var (
		value    any
		valueErr error
		done     bool
	)
	get := func() (any, error) {
		if !done {
			value, valueErr = s.output(f)
			done = true
		}
		return value, valueErr
	}

	include, err := f.includeIf.evaluate(s, get, true)
	if err != nil {
		return nil, false, err
	}
	if !include {
		return nil, false, nil
	}
	exclude, err := f.excludeIf.evaluate(s, get, false)
	if err != nil {
		return nil, false, err
	}
	if exclude {
		return nil, false, nil
	}

	v, err := get()
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// output 产出字段值，关联字段继续序列化到 depth+1。
func (s *Instance) output(f *Field) (any, error) {
	v, err := s.produce(f)
	if err != nil {
		return nil, merr.WrapErrFieldProduceFailed(f.name, err)
	}
	if f.kind == AttributeField {
		return v, nil
	}

	nested, err := s.resolver.serialize(s, v, f.overrides, s.depth+1, s.maxDepth, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "serialize association %s", f.name)
	}
	return nested.AsJSON()
}

// produce 调用字段的产出函数，panic 转换为错误。
func (s *Instance) produce(f *Field) (v any, err error) {
	defer func() {
		if x := recover(); x != nil {
			err = errors.Newf("panicked with error: %v", x)
		}
	}()
	return f.produce(s)
}

func encode(s Serialized) ([]byte, error) {
	v, err := s.AsJSON()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, merr.WrapErrEncodeFailed(err)
	}
	return data, nil
}

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
