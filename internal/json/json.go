// Package json 是项目内部统一使用的 JSON 编解码入口。
// amd64/arm64 上使用 bytedance/sonic，其他平台退回 json-iterator。
package json

// API 是 sonic 与 jsoniter 冻结配置的公共子集。
type API interface {
	Marshal(v any) ([]byte, error)
	MarshalIndent(v any, prefix, indent string) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Valid(data []byte) bool
}

// Marshal 编码 v，map 的键按字典序输出。
func Marshal(v any) ([]byte, error) {
	return std.Marshal(v)
}

func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return std.MarshalIndent(v, prefix, indent)
}

func Unmarshal(data []byte, v any) error {
	return std.Unmarshal(data, v)
}

// UnmarshalUseNumber 解码时把数字保留为 json.Number，避免大整数丢失精度。
func UnmarshalUseNumber(data []byte, v any) error {
	return number.Unmarshal(data, v)
}

func Valid(data []byte) bool {
	return std.Valid(data)
}
