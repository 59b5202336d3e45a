// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/uber/jaeger-client-go/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"gopkg.in/natefinch/lumberjack.v2"
)

var _globalL, _globalP, _globalS, _globalR atomic.Value

var _namedRateLimiters sync.Map

// RateLimiter 是限流日志使用的最小接口。
type RateLimiter interface {
	CheckCredit(delta float64) bool
}

// rateLimiterHolder 保证 atomic.Value 中存放的具体类型一致。
type rateLimiterHolder struct {
	RateLimiter
}

// nopRateLimiter 从不丢弃日志。
type nopRateLimiter struct{}

func (nopRateLimiter) CheckCredit(delta float64) bool { return true }

func init() {
	l, p := newStdLogger()
	ReplaceGlobals(l, p)

	configureRateLimiterFromEnv()
}

// InitLogger 按配置初始化 zap Logger，输出到文件和/或标准输出。
func InitLogger(cfg *Config, opts ...zap.Option) (*zap.Logger, *ZapProperties, error) {
	var outputs []zapcore.WriteSyncer
	if len(cfg.File.Filename) > 0 {
		lg, err := initFileLog(&cfg.File)
		if err != nil {
			return nil, nil, err
		}
		outputs = append(outputs, zapcore.AddSync(lg))
	}
	if cfg.Stdout {
		stdOut, _, err := zap.Open("stdout")
		if err != nil {
			return nil, nil, err
		}
		outputs = append(outputs, stdOut)
	}
	if len(outputs) == 0 {
		outputs = append(outputs, zapcore.AddSync(discard{}))
	}

	lg, r, err := InitLoggerWithWriteSyncer(cfg, zap.CombineWriteSyncers(outputs...), opts...)
	if err != nil {
		return nil, nil, err
	}
	return lg, r, nil
}

// InitTestLogger 初始化单元测试使用的 Logger，日志写入 t.Log。
func InitTestLogger(t zaptest.TestingT, cfg *Config, opts ...zap.Option) (*zap.Logger, *ZapProperties, error) {
	writer := testWriteSyncer{t: t}
	zapOptions := []zap.Option{
		// zap 内部错误标记测试失败
		zap.ErrorOutput(testWriteSyncer{t: t, failTest: true}),
	}
	opts = append(zapOptions, opts...)
	return InitLoggerWithWriteSyncer(cfg, writer, opts...)
}

// InitLoggerWithWriteSyncer 使用指定的 WriteSyncer 初始化 Logger。
func InitLoggerWithWriteSyncer(cfg *Config, output zapcore.WriteSyncer, opts ...zap.Option) (*zap.Logger, *ZapProperties, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(normalizeLevel(cfg.Level))); err != nil {
		return nil, nil, errors.Wrapf(err, "invalid log level %q", cfg.Level)
	}
	core := zapcore.NewCore(newZapEncoder(cfg), output, level)
	opts = append(cfg.buildOptions(output), opts...)
	lg := zap.New(core, opts...)
	r := &ZapProperties{
		Core:   core,
		Syncer: output,
		Level:  level,
	}
	return lg, r, nil
}

// normalizeLevel 把 zap 不认识的 trace 级别映射为 debug。
func normalizeLevel(level string) string {
	if level == "" || strings.EqualFold(level, "trace") {
		return "debug"
	}
	return level
}

// initFileLog 初始化基于 lumberjack 的滚动文件日志。
func initFileLog(cfg *FileLogConfig) (*lumberjack.Logger, error) {
	logPath := filepath.Join(cfg.RootPath, cfg.Filename)
	if st, err := os.Stat(logPath); err == nil {
		if st.IsDir() {
			return nil, errors.New("can't use directory as log file name")
		}
	}
	if cfg.MaxSize == 0 {
		cfg.MaxSize = defaultLogMaxSize
	}

	return &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxDays,
		LocalTime:  true,
	}, nil
}

func newStdLogger() (*zap.Logger, *ZapProperties) {
	conf := &Config{Level: "info", Stdout: true, DisableErrorVerbose: true}
	lg, r, _ := InitLogger(conf, zap.OnFatal(zapcore.WriteThenPanic))
	return lg, r
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// L 返回全局 Logger，可通过 ReplaceGlobals 替换，并发安全。
func L() *zap.Logger {
	return _globalL.Load().(*zap.Logger)
}

// S 返回全局 SugaredLogger，并发安全。
func S() *zap.SugaredLogger {
	return _globalS.Load().(*zap.SugaredLogger)
}

// R 返回全局限流器，未开启限流时返回永不丢弃的实现。
func R() RateLimiter {
	if h, ok := _globalR.Load().(rateLimiterHolder); ok && h.RateLimiter != nil {
		return h.RateLimiter
	}
	return nopRateLimiter{}
}

// ReplaceGlobals 替换全局 Logger 与 SugaredLogger，并发安全。
func ReplaceGlobals(logger *zap.Logger, props *ZapProperties) {
	_globalL.Store(logger)
	_globalS.Store(logger.Sugar())
	_globalP.Store(props)
}

// Sync 刷新缓冲中的日志。
func Sync() error {
	if err := L().Sync(); err != nil {
		return err
	}
	return S().Sync()
}

func Level() zap.AtomicLevel {
	return _globalP.Load().(*ZapProperties).Level
}

// configureRateLimiterFromEnv 根据 ZEUS_LOG_RATE_* 环境变量配置全局限流器。
//
//   - ZEUS_LOG_RATE_ENABLE: "1"/"true" 开启，默认关闭。
//   - ZEUS_LOG_RATE_CREDIT_PER_SECOND: 默认 1.0。
//   - ZEUS_LOG_RATE_MAX_BALANCE: 默认 60.0。
func configureRateLimiterFromEnv() {
	if !getenvBool("ZEUS_LOG_RATE_ENABLE", false) {
		_globalR.Store(rateLimiterHolder{nopRateLimiter{}})
		return
	}

	credit := getenvFloat("ZEUS_LOG_RATE_CREDIT_PER_SECOND", 1.0)
	maxBalance := getenvFloat("ZEUS_LOG_RATE_MAX_BALANCE", 60.0)
	_globalR.Store(rateLimiterHolder{utils.NewRateLimiter(credit, maxBalance)})
}

func getenvBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

func getenvFloat(key string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return def
	}
	return f
}
