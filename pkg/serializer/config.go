package serializer

import (
	"go.uber.org/atomic"

	"github.com/lk2023060901/garden-serializer/pkg/util/merr"
)

const (
	defaultMaxDepth      = 1
	defaultMaxDepthLimit = 32
)

var (
	globalMaxDepth      = atomic.NewInt64(defaultMaxDepth)
	globalMaxDepthLimit = atomic.NewInt64(defaultMaxDepthLimit)
)

// Config 是序列化相关的进程级配置。
type Config struct {
	// DefaultMaxDepth 为未指定 WithMaxDepth 时的最大关联展开深度，0 表示不展开关联。
	DefaultMaxDepth int `mapstructure:"default-max-depth" json:"default-max-depth" yaml:"default-max-depth"`
	// MaxDepthLimit 为任何调用允许的最大深度，超过的值会被截断。
	MaxDepthLimit int `mapstructure:"max-depth-limit" json:"max-depth-limit" yaml:"max-depth-limit"`
}

func DefaultConfig() Config {
	return Config{
		DefaultMaxDepth: defaultMaxDepth,
		MaxDepthLimit:   defaultMaxDepthLimit,
	}
}

// Apply 应用配置，先设置上限再设置默认深度。
func Apply(cfg Config) error {
	if err := SetMaxDepthLimit(cfg.MaxDepthLimit); err != nil {
		return err
	}
	return SetDefaultMaxDepth(cfg.DefaultMaxDepth)
}

// DefaultMaxDepth 返回全局默认的最大关联展开深度，初始为 1。
func DefaultMaxDepth() int {
	return int(globalMaxDepth.Load())
}

// SetDefaultMaxDepth 修改全局默认深度，只影响之后发起的调用。
func SetDefaultMaxDepth(n int) error {
	limit := MaxDepthLimit()
	if n < 0 || n > limit {
		return merr.WrapErrParameterInvalidRange(0, limit, n, "default max depth")
	}
	globalMaxDepth.Store(int64(n))
	return nil
}

func MaxDepthLimit() int {
	return int(globalMaxDepthLimit.Load())
}

// SetMaxDepthLimit 修改深度上限，用于防止过深的递归展开。
func SetMaxDepthLimit(n int) error {
	if n < 1 {
		return merr.WrapErrParameterInvalid(1, n, "max depth limit must be at least 1")
	}
	globalMaxDepthLimit.Store(int64(n))
	if DefaultMaxDepth() > n {
		globalMaxDepth.Store(int64(n))
	}
	return nil
}
