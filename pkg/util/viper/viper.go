package viper

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	spfviper "github.com/spf13/viper"
)

// Config 封装 spf13/viper 实例，对外提供精简的 YAML/JSON 配置加载接口。
type Config struct {
	v *spfviper.Viper
}

// New 创建一个空的 Config。
// 在调用 Unmarshal/UnmarshalKey 之前需要先调用 LoadFile 或 LoadReader 加载配置。
func New() *Config {
	return &Config{
		v: spfviper.New(),
	}
}

func (c *Config) viper() *spfviper.Viper {
	if c.v == nil {
		c.v = spfviper.New()
	}
	return c.v
}

// LoadFile 将 YAML 或 JSON 配置文件加载到 Config 中。
// 文件类型通过扩展名（.yaml/.yml/.json）推断。
func (c *Config) LoadFile(path string) error {
	v := c.viper()
	v.SetConfigFile(path)

	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		v.SetConfigType("yaml")
	case ".json":
		v.SetConfigType("json")
	default:
		// 让 viper 自行推断类型，或在读取时返回清晰的错误信息。
	}

	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read config file %s", path)
	}
	return nil
}

// LoadReader 从 reader 读取配置，typ 为 "yaml" 或 "json"。
func (c *Config) LoadReader(r io.Reader, typ string) error {
	v := c.viper()
	v.SetConfigType(typ)
	if err := v.ReadConfig(r); err != nil {
		return errors.Wrapf(err, "read %s config", typ)
	}
	return nil
}

// AutomaticEnv 允许环境变量覆盖配置项，仅对 Unmarshal 整体读取时生效。
// 例如前缀为 ZEUS 时，serializer.default-max-depth 对应 ZEUS_SERIALIZER_DEFAULT_MAX_DEPTH。
func (c *Config) AutomaticEnv(prefix string) {
	v := c.viper()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// SetDefault 设置配置项的默认值，优先级最低。
func (c *Config) SetDefault(key string, value any) {
	c.viper().SetDefault(key, value)
}

func (c *Config) IsSet(key string) bool {
	if c.v == nil {
		return false
	}
	return c.v.IsSet(key)
}

// Unmarshal 将完整配置反序列化到 dst。
// dst 应为结构体或 map 的指针。
func (c *Config) Unmarshal(dst any) error {
	if c.v == nil {
		return nil
	}
	return c.v.Unmarshal(dst)
}

// UnmarshalKey 将指定 key 对应的子配置反序列化到 dst。
// dst 应为结构体或 map 的指针。
func (c *Config) UnmarshalKey(key string, dst any) error {
	if c.v == nil {
		return nil
	}
	return c.v.UnmarshalKey(key, dst)
}
