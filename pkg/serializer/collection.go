package serializer

import (
	"reflect"
	"time"

	"github.com/lk2023060901/garden-serializer/pkg/metrics"
	"github.com/lk2023060901/garden-serializer/pkg/util/conc"
)

var _ Serialized = (*Collection)(nil)

// Collection 是对切片或数组逐个元素序列化的结果，元素各自独立解析序列化器。
type Collection struct {
	items       []Serialized
	resolver    *Resolver
	depth       int
	concurrency int
}

// Items 返回各元素的序列化结果，顺序与输入一致。
func (c *Collection) Items() []Serialized {
	return append([]Serialized(nil), c.items...)
}

func (c *Collection) Len() int {
	return len(c.items)
}

// AsJSON 返回 []any，空集合返回空切片而不是 nil。
func (c *Collection) AsJSON() (any, error) {
	if c.depth == 0 {
		start := time.Now()
		defer func() {
			metrics.SerializeLatency.WithLabelValues(metrics.CollectionLabel).Observe(sinceMs(start))
		}()
	}

	out := make([]any, len(c.items))
	if c.concurrency > 1 && len(c.items) > 1 {
		return out, c.concurrentAsJSON(out)
	}
	for i, item := range c.items {
		v, err := item.AsJSON()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// concurrentAsJSON 每批提交 concurrency 个元素到协程池，等整批完成后再提交下一批。
func (c *Collection) concurrentAsJSON(out []any) error {
	pool := c.resolver.workerPool()
	for start := 0; start < len(c.items); start += c.concurrency {
		end := min(start+c.concurrency, len(c.items))
		futures := make([]*conc.Future[any], 0, end-start)
		for _, item := range c.items[start:end] {
			futures = append(futures, pool.Submit(item.AsJSON))
		}
		if err := conc.AwaitAll(futures...); err != nil {
			return err
		}
		for i, future := range futures {
			out[start+i] = future.Value()
		}
	}
	return nil
}

func (c *Collection) ToJSON() ([]byte, error) {
	return encode(c)
}

var byteType = reflect.TypeOf(byte(0))

// collectionItems 把切片或数组展开为 []any；[]byte 视为单个值。
func collectionItems(object any) ([]any, bool) {
	if object == nil {
		return nil, false
	}
	if items, ok := object.([]any); ok {
		return items, true
	}
	v := reflect.ValueOf(object)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Type().Elem() == byteType {
			return nil, false
		}
	default:
		return nil, false
	}
	items := make([]any, v.Len())
	for i := range items {
		items[i] = v.Index(i).Interface()
	}
	return items, true
}
