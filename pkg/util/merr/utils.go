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
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Code 返回给定错误对应的错误码，nil 返回 0。
func Code(err error) int32 {
	if err == nil {
		return 0
	}

	cause := errors.Cause(err)
	if specificErr, ok := cause.(zeusError); ok {
		return specificErr.code()
	}
	return errUnexpected.code()
}

// IsRetryableErr 判断错误是否可以重试。
// 序列化相关的错误都是确定性的，目前全部不可重试。
func IsRetryableErr(err error) bool {
	if err, ok := errors.Cause(err).(zeusError); ok {
		return err.retriable
	}
	return false
}

func GetErrorType(err error) ErrorType {
	if merr, ok := errors.Cause(err).(zeusError); ok {
		return merr.errType
	}
	return SystemError
}

// Serializer 相关
func WrapErrSerializerNotFound(target string, chain []string, msg ...string) error {
	err := wrapFields(ErrSerializerNotFound,
		value("serializer", target),
		value("tried", strings.Join(chain, ", ")),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrSerializerInvalidOverride(param string, override any, msg ...string) error {
	err := wrapFields(ErrSerializerInvalidOverride,
		value("param", param),
		value("type", fmt.Sprintf("%T", override)),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrSerializerAlreadyExist(name string, msg ...string) error {
	err := wrapFields(ErrSerializerAlreadyExist, value("serializer", name))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrSerializerInvalidName(name string, msg ...string) error {
	err := wrapFields(ErrSerializerInvalidName, value("serializer", name))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Field 相关
func WrapErrFieldNotFound[T any](field T, msg ...string) error {
	err := wrapFields(ErrFieldNotFound, value("field", field))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrFieldInvalidName(field string, msg ...string) error {
	err := wrapFields(ErrFieldInvalidName, value("field", field))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrFieldInvalidOption(field string, option string, msg ...string) error {
	err := wrapFields(ErrFieldInvalidOption, value("field", field), value("option", option))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrFieldProduceFailed(field string, cause error) error {
	if cause == nil {
		return nil
	}
	// 同时保留 ErrFieldProduceFailed 与原始错误链
	return Combine(wrapFields(ErrFieldProduceFailed, value("field", field)), cause)
}

func WrapErrPredicateNotFound(serializer string, predicate string, msg ...string) error {
	err := wrapFields(ErrPredicateNotFound, value("serializer", serializer), value("predicate", predicate))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// 编码相关
func WrapErrEncodeFailed(cause error, msg ...string) error {
	if cause == nil {
		return nil
	}
	err := wrapFieldsWithDesc(ErrEncodeFailed, cause.Error())
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// 参数相关
func WrapErrParameterInvalid[T any](expected, actual T, msg ...string) error {
	err := wrapFields(ErrParameterInvalid,
		value("expected", expected),
		value("actual", actual),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrParameterInvalidRange[T any](lower, upper, actual T, msg ...string) error {
	err := wrapFields(ErrParameterInvalid,
		bound("value", actual, lower, upper),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func wrapFields(err zeusError, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.detail = err.msg
	return err
}

func wrapFieldsWithDesc(err zeusError, desc string, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.msg += ": " + desc
	err.detail = err.msg
	return err
}

type errorField interface {
	String() string
}

type valueField struct {
	name  string
	value any
}

func value(name string, value any) valueField {
	return valueField{
		name,
		value,
	}
}

func (f valueField) String() string {
	return fmt.Sprintf("%s=%v", f.name, f.value)
}

type boundField struct {
	name  string
	value any
	lower any
	upper any
}

func bound(name string, value, lower, upper any) boundField {
	return boundField{
		name,
		value,
		lower,
		upper,
	}
}

func (f boundField) String() string {
	return fmt.Sprintf("%v out of range %v <= %s <= %v", f.value, f.lower, f.name, f.upper)
}
