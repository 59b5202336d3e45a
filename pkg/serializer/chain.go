package serializer

import (
	"strings"

	"github.com/lk2023060901/garden-serializer/pkg/util/nameutil"
)

const serializerSuffix = "Serializer"

// lookupTarget 描述一次查找：在 base 及其各级父命名空间下寻找 suffix::name。
type lookupTarget struct {
	object   string
	base     []string
	suffix   []string
	name     string
	absolute bool
}

// newLookupTarget 计算查找目标，对象没有可用的类型名时返回 false。
func newLookupTarget(callerNS []string, object any, o overrides) (lookupTarget, bool) {
	t := lookupTarget{object: objectTypeName(object)}

	source := t.object
	fromSerializer := false
	if s, ok := overrideString(o.serializer); ok && strings.TrimSpace(s) != "" {
		source = s
		fromSerializer = true
	}
	segments, absolute := nameutil.CanonicalSegments(source)
	if len(segments) == 0 {
		return t, false
	}
	t.absolute = fromSerializer && absolute
	t.suffix = segments[:len(segments)-1]
	simple := segments[len(segments)-1]

	if v, ok := overrideString(o.variant); ok {
		if variant := nameutil.PascalCase(nameutil.Base(v)); variant != "" {
			simple = variant
		}
	}
	t.name = strings.TrimSuffix(simple, serializerSuffix) + serializerSuffix

	t.base = callerNS
	if ns, ok := overrideString(o.namespace); ok {
		nsSegments, nsAbsolute := nameutil.CanonicalSegments(ns)
		if nsAbsolute {
			t.base = nsSegments
		} else {
			t.base = append(append(make([]string, 0, len(callerNS)+len(nsSegments)), callerNS...), nsSegments...)
		}
	}
	if t.object == "" {
		t.object = nameutil.JoinPath(segments...)
	}
	return t, true
}

// target 返回不含命名空间前缀的目标名，例如 "Chat::UserSerializer"。
func (t lookupTarget) target() string {
	return nameutil.JoinPath(append(append([]string{}, t.suffix...), t.name)...)
}

// namespace 返回查找的起始命名空间。
func (t lookupTarget) namespace() string {
	return nameutil.JoinPath(t.base...)
}

// namespaces 返回候选命名空间链，最具体的在前，以根命名空间 "" 结尾。
func (t lookupTarget) namespaces() []string {
	if t.absolute {
		return []string{""}
	}
	chain := make([]string, 0, len(t.base)+1)
	for i := len(t.base); i >= 0; i-- {
		chain = append(chain, nameutil.JoinPath(t.base[:i]...))
	}
	return chain
}

// candidates 返回按查找顺序排列的完整候选名。
func (t lookupTarget) candidates() []string {
	target := t.target()
	namespaces := t.namespaces()
	out := make([]string, len(namespaces))
	for i, ns := range namespaces {
		out[i] = nameutil.JoinPath(ns, target)
	}
	return out
}
