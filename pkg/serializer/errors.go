package serializer

import (
	"fmt"
	"strings"

	"github.com/lk2023060901/garden-serializer/pkg/util/merr"
)

// NotFoundError 是严格查找失败时返回的错误，可通过 errors.As 取出诊断信息；
// errors.Is(err, merr.ErrSerializerNotFound) 成立。
type NotFoundError struct {
	// Object 是对象的类型名（或指定的序列化器名）
	Object string
	// Namespace 是查找的起始命名空间，根命名空间为空串
	Namespace string
	// Target 是不含命名空间前缀的目标名
	Target string
	// Candidates 是实际尝试过的完整名称，最具体的在前
	Candidates []string

	cause error
}

func newNotFoundError(t lookupTarget, candidates []string) *NotFoundError {
	return &NotFoundError{
		Object:     t.object,
		Namespace:  t.namespace(),
		Target:     t.target(),
		Candidates: candidates,
		cause:      merr.WrapErrSerializerNotFound(t.target(), candidates),
	}
}

func (e *NotFoundError) Error() string {
	ns := e.Namespace
	if ns == "" {
		ns = "the root namespace"
	}
	object := e.Object
	if object == "" {
		object = "an unnamed type"
	}
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("couldn't find serializer for %s in %s", object, ns)
	}
	return fmt.Sprintf("couldn't find serializer for %s in %s, tried looking for: %s",
		object, ns, strings.Join(e.Candidates, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return e.cause
}
