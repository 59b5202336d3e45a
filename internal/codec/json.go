package codec

import (
	"github.com/lk2023060901/garden-serializer/internal/json"
)

// JSONCodec 使用 internal/json 编解码，解码时数字保留为 json.Number。
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.UnmarshalUseNumber(data, v)
}
