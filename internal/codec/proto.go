package codec

import (
	"github.com/cockroachdb/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ProtoJSONCodec 使用 protojson 编解码，字段名采用 proto 中的 json_name。
//
// 注意：传入/传出的对象必须实现 proto.Message。
type ProtoJSONCodec struct{}

func (ProtoJSONCodec) Marshal(v any) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, errors.Newf("codec: ProtoJSONCodec requires proto.Message, got %T", v)
	}
	return protojson.Marshal(msg)
}

func (ProtoJSONCodec) Unmarshal(data []byte, v any) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return errors.Newf("codec: ProtoJSONCodec requires proto.Message, got %T", v)
	}
	return protojson.Unmarshal(data, msg)
}
