// Package render 是 HTTP 输出层的挂钩：写出响应前先把载荷交给序列化器，
// 调用方传入 Bypass 时按原样编码。
package render

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/lk2023060901/garden-serializer/internal/codec"
	"github.com/lk2023060901/garden-serializer/internal/json"
	"github.com/lk2023060901/garden-serializer/pkg/log"
	"github.com/lk2023060901/garden-serializer/pkg/serializer"
	"github.com/lk2023060901/garden-serializer/pkg/util/merr"
)

const contentType = "application/json; charset=utf-8"

type options struct {
	status         int
	bypass         bool
	resolver       *serializer.Resolver
	serializerOpts []serializer.Option
}

// Option 配置一次响应输出。
type Option func(*options)

// WithStatus 指定响应状态码，默认 200。
func WithStatus(code int) Option {
	return func(o *options) {
		o.status = code
	}
}

// Bypass 跳过序列化器，直接编码载荷；proto.Message 按 protojson 编码。
func Bypass() Option {
	return func(o *options) {
		o.bypass = true
	}
}

// WithResolver 指定使用的 Resolver，默认为 serializer.Default()。
func WithResolver(r *serializer.Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithSerializerOptions 透传 WithNamespace、WithSerializer、WithVariant、WithMaxDepth 等选项。
func WithSerializerOptions(opts ...serializer.Option) Option {
	return func(o *options) {
		o.serializerOpts = append(o.serializerOpts, opts...)
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		status:   http.StatusOK,
		resolver: serializer.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Encode 返回载荷最终输出的 JSON 文本。
func Encode(caller serializer.Caller, payload any, opts ...Option) ([]byte, error) {
	return newOptions(opts).encode(caller, payload)
}

func (o *options) encode(caller serializer.Caller, payload any) ([]byte, error) {
	if o.bypass {
		data, err := codec.For(payload).Marshal(payload)
		if err != nil {
			return nil, merr.WrapErrEncodeFailed(err)
		}
		return data, nil
	}

	s, err := o.resolver.Serialize(caller, payload, o.serializerOpts...)
	if err != nil {
		return nil, err
	}
	return s.ToJSON()
}

// JSON 序列化载荷并写出 application/json 响应。编码失败时不写任何内容，由调用方处理错误。
func JSON(w http.ResponseWriter, caller serializer.Caller, payload any, opts ...Option) error {
	o := newOptions(opts)
	data, err := o.encode(caller, payload)
	if err != nil {
		return err
	}
	return write(w, o.status, data)
}

func write(w http.ResponseWriter, status int, data []byte) error {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "write response")
	}
	return nil
}

// ErrorBody 是错误响应的结构。
type ErrorBody struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

// StatusOf 把错误映射为 HTTP 状态码：输入错误为 400，其余为 500。
func StatusOf(err error) int {
	if merr.GetErrorType(err) == merr.InputError {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Error 写出错误响应。
func Error(w http.ResponseWriter, err error) error {
	data, encodeErr := json.Marshal(ErrorBody{Code: merr.Code(err), Message: err.Error()})
	if encodeErr != nil {
		return merr.WrapErrEncodeFailed(encodeErr)
	}
	return write(w, StatusOf(err), data)
}

// HandlerFunc 返回待输出的载荷。
type HandlerFunc func(r *http.Request) (any, error)

// Handler 把 HandlerFunc 适配为 http.Handler，以 caller 的命名空间解析序列化器。
// HandlerFunc 或序列化出错时写出 ErrorBody。
func Handler(caller serializer.Caller, fn HandlerFunc, opts ...Option) http.Handler {
	o := newOptions(opts)
	callerName := ""
	if caller != nil {
		callerName = caller.QualifiedName()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.Ctx(r.Context()).With(
			zap.String("caller", callerName),
			zap.String("path", r.URL.Path))

		data, err := handle(o, caller, fn, r)
		if err != nil {
			logger.Warn("request failed", zap.Error(err))
			if err := Error(w, err); err != nil {
				logger.Warn("failed to write error response", zap.Error(err))
			}
			return
		}
		if err := write(w, o.status, data); err != nil {
			logger.Warn("failed to write response", zap.Error(err))
		}
	})
}

func handle(o *options, caller serializer.Caller, fn HandlerFunc, r *http.Request) ([]byte, error) {
	payload, err := fn(r)
	if err != nil {
		return nil, err
	}
	return o.encode(caller, payload)
}
