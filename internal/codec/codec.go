// Package codec 抽象“对象 <-> JSON 文本”的编解码，
// 普通对象走 internal/json，proto.Message 走 protojson。
package codec

import (
	"google.golang.org/protobuf/proto"
)

// Codec 是一种 JSON 编解码实现。
type Codec interface {
	// Marshal 将对象编码为 JSON 文本。
	Marshal(v any) ([]byte, error)

	// Unmarshal 将 JSON 文本解码到目标对象，v 通常为指针。
	Unmarshal(data []byte, v any) error
}

var (
	_ Codec = JSONCodec{}
	_ Codec = ProtoJSONCodec{}
)

// For 按对象类型选择编解码实现。
func For(v any) Codec {
	if _, ok := v.(proto.Message); ok {
		return ProtoJSONCodec{}
	}
	return JSONCodec{}
}
