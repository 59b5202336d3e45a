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

package merr

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

type ErrorType int32

const (
	SystemError ErrorType = 0
	InputError  ErrorType = 1
)

var ErrorTypeName = map[ErrorType]string{
	SystemError: "system_error",
	InputError:  "input_error",
}

func (err ErrorType) String() string {
	return ErrorTypeName[err]
}

// 叶子错误统一定义在这里。
// 新增错误前先确认下面是否已有可复用的错误。
// 命名规则：Err + 相关前缀 + 错误名
var (
	// Serializer 相关
	ErrSerializerNotFound        = newZeusError("serializer not found", 100, false)
	ErrSerializerInvalidOverride = newZeusError("invalid serializer override", 101, false, WithErrorType(InputError))
	ErrSerializerAlreadyExist    = newZeusError("serializer already exist", 102, false)
	ErrSerializerInvalidName     = newZeusError("invalid serializer name", 103, false, WithErrorType(InputError))

	// Field 相关
	ErrFieldNotFound      = newZeusError("field not found", 200, false)
	ErrFieldInvalidName   = newZeusError("field name invalid", 201, false, WithErrorType(InputError))
	ErrFieldInvalidOption = newZeusError("field option invalid", 202, false, WithErrorType(InputError))
	ErrFieldProduceFailed = newZeusError("fail to produce field value", 203, false)
	ErrPredicateNotFound  = newZeusError("predicate not found", 204, false, WithErrorType(InputError))

	// 编码相关
	ErrEncodeFailed = newZeusError("fail to encode json", 300, false)

	// 参数相关
	ErrParameterInvalid = newZeusError("invalid parameter", 1100, false, WithErrorType(InputError))

	// 仅用于把未知错误转换为 zeusError，不要导出。
	errUnexpected = newZeusError("unexpected error", (1<<16)-1, false)
)

type errorOption func(*zeusError)

func WithDetail(detail string) errorOption {
	return func(err *zeusError) {
		err.detail = detail
	}
}

func WithErrorType(etype ErrorType) errorOption {
	return func(err *zeusError) {
		err.errType = etype
	}
}

type zeusError struct {
	msg       string
	detail    string
	retriable bool
	errCode   int32
	errType   ErrorType
}

func newZeusError(msg string, code int32, retriable bool, options ...errorOption) zeusError {
	err := zeusError{
		msg:       msg,
		detail:    msg,
		retriable: retriable,
		errCode:   code,
	}

	for _, option := range options {
		option(&err)
	}
	return err
}

func (e zeusError) code() int32 {
	return e.errCode
}

func (e zeusError) Error() string {
	return e.msg
}

func (e zeusError) Detail() string {
	return e.detail
}

// Is 按错误码判等，包装过字段的错误与原始叶子错误视为同一个错误。
func (e zeusError) Is(err error) bool {
	cause := errors.Cause(err)
	if cause, ok := cause.(zeusError); ok {
		return e.errCode == cause.errCode
	}
	return false
}

type multiErrors struct {
	errs []error
}

// Unwrap 以最后一个错误作为 multiErrors 的 cause。
func (e multiErrors) Unwrap() error {
	if len(e.errs) <= 1 {
		return nil
	}
	if len(e.errs) == 2 {
		return e.errs[1]
	}

	return multiErrors{
		errs: e.errs[1:],
	}
}

func (e multiErrors) Error() string {
	final := e.errs[0]
	for i := 1; i < len(e.errs); i++ {
		final = errors.Wrap(e.errs[i], final.Error())
	}
	return final.Error()
}

func (e multiErrors) Is(err error) bool {
	for _, item := range e.errs {
		if errors.Is(item, err) {
			return true
		}
	}
	return false
}

// Combine 合并多个错误，nil 会被忽略；全部为 nil 时返回 nil。
func Combine(errs ...error) error {
	errs = lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(errs) == 0 {
		return nil
	}
	return multiErrors{
		errs,
	}
}
