// Copyright 2019 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxLogKeyType struct{}

var CtxLogKey = ctxLogKeyType{}

// Debug 使用全局 Logger 输出 Debug 日志。
func Debug(msg string, fields ...zap.Field) {
	L().Debug(msg, fields...)
}

// Info 使用全局 Logger 输出 Info 日志。
func Info(msg string, fields ...zap.Field) {
	L().Info(msg, fields...)
}

// Warn 使用全局 Logger 输出 Warn 日志。
func Warn(msg string, fields ...zap.Field) {
	L().Warn(msg, fields...)
}

// Error 使用全局 Logger 输出 Error 日志。
func Error(msg string, fields ...zap.Field) {
	L().Error(msg, fields...)
}

// RatedWarn 以 Warn 级别输出限流日志，返回是否实际输出。
func RatedWarn(cost float64, msg string, fields ...zap.Field) bool {
	if R().CheckCredit(cost) {
		L().Warn(msg, fields...)
		return true
	}
	return false
}

// With 创建一个携带额外字段的子 Logger，不影响全局 Logger。
func With(fields ...zap.Field) *MLogger {
	return &MLogger{
		Logger: L().With(fields...),
	}
}

// SetLevel 设置全局日志级别。
func SetLevel(l zapcore.Level) {
	Level().SetLevel(l)
}

// GetLevel 获取当前全局日志级别。
func GetLevel() zapcore.Level {
	return Level().Level()
}

// WithModule 为 ctx 中的 Logger 添加模块名字段。
func WithModule(ctx context.Context, module string) context.Context {
	return WithFields(ctx, FieldModule(module))
}

// WithFields 返回一个附加了指定字段的上下文。
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	zlogger := L()
	if ctxLogger, ok := ctx.Value(CtxLogKey).(*MLogger); ok {
		zlogger = ctxLogger.Logger
	}
	return context.WithValue(ctx, CtxLogKey, &MLogger{
		Logger: zlogger.With(fields...),
	})
}

// Ctx 返回 ctx 上附加的 Logger，没有则返回全局 Logger。
func Ctx(ctx context.Context) *MLogger {
	if ctx != nil {
		if ctxLogger, ok := ctx.Value(CtxLogKey).(*MLogger); ok {
			return ctxLogger
		}
	}
	return &MLogger{Logger: L()}
}
