package serializer

import (
	"bytes"

	"github.com/lk2023060901/garden-serializer/internal/json"
)

// Map 是按插入顺序输出键的 JSON 对象。
type Map struct {
	keys   []string
	values map[string]any
}

func NewMap(capacity int) *Map {
	return &Map{
		keys:   make([]string, 0, capacity),
		values: make(map[string]any, capacity),
	}
}

// Set 写入键值；已存在的键保留原位置。
func (m *Map) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *Map) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *Map) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys 返回按输出顺序排列的键。
func (m *Map) Keys() []string {
	return append([]string(nil), m.keys...)
}

func (m *Map) Len() int {
	return len(m.keys)
}

// Range 按输出顺序遍历，回调返回 false 时终止。
func (m *Map) Range(fn func(key string, value any) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// ToMap 递归转换为普通的 map[string]any，嵌套的 *Map 与 []any 一并转换，键顺序丢失。
func (m *Map) ToMap() map[string]any {
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		out[k] = plain(m.values[k])
	}
	return out
}

func plain(v any) any {
	switch x := v.(type) {
	case *Map:
		if x == nil {
			return nil
		}
		return x.ToMap()
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = plain(x[i])
		}
		return out
	default:
		return v
	}
}

func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
