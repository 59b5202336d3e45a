package log

import "go.uber.org/atomic"

var (
	_ WithLogger   = &Binder{}
	_ LoggerBinder = &Binder{}
)

// WithLogger 是一个用于访问组件 Logger 的接口。
type WithLogger interface {
	Logger() *MLogger
}

// LoggerBinder 是一个用于设置组件 Logger 的接口。
type LoggerBinder interface {
	SetLogger(logger *MLogger)
}

// Binder 嵌入到 Resolver、Registry 等组件中，统一管理组件自己的 Logger。
type Binder struct {
	logger    atomic.Pointer[MLogger]
	component atomic.String
}

// BindComponent 设置组件名，未绑定 Logger 时日志会带上 component 字段。
func (w *Binder) BindComponent(component string) {
	w.component.Store(component)
}

// SetLogger 绑定 Logger，传入 nil 表示解除绑定。
func (w *Binder) SetLogger(logger *MLogger) {
	w.logger.Store(logger)
}

// Logger 返回绑定的 Logger，未绑定时退回到全局 Logger。
func (w *Binder) Logger() *MLogger {
	if l := w.logger.Load(); l != nil {
		return l
	}
	if component := w.component.Load(); component != "" {
		return With(FieldComponent(component))
	}
	return With()
}
