// Package nameutil 提供序列化器名称与命名空间路径的规范化工具。
//
// 路径统一使用 "::" 作为分隔符，输入时也接受 "/"。
// 以分隔符开头的路径视为绝对路径。
package nameutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

const (
	// Separator 是规范化后的路径分隔符。
	Separator = "::"

	altSeparator = "/"
)

func isWordSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

// PascalCase 将 snake_case、kebab-case 或空格分隔的单词转换为 PascalCase。
// 每个单词只大写首字母，其余字符保持不变，因此已经是 PascalCase 的输入原样返回。
func PascalCase(s string) string {
	words := strings.FieldsFunc(s, isWordSeparator)
	var sb strings.Builder
	sb.Grow(len(s))
	for _, w := range words {
		sb.WriteString(upperFirst(w))
	}
	return sb.String()
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// SplitPath 拆分路径，返回各段以及是否为绝对路径。空段会被丢弃。
func SplitPath(path string) ([]string, bool) {
	path = strings.TrimSpace(path)
	absolute := strings.HasPrefix(path, Separator) || strings.HasPrefix(path, altSeparator)
	path = strings.ReplaceAll(path, altSeparator, Separator)
	segments := lo.Filter(strings.Split(path, Separator), func(seg string, _ int) bool {
		return strings.TrimSpace(seg) != ""
	})
	return lo.Map(segments, func(seg string, _ int) string {
		return strings.TrimSpace(seg)
	}), absolute
}

// CanonicalSegments 拆分路径并对每一段做 PascalCase 规范化。
func CanonicalSegments(path string) ([]string, bool) {
	segments, absolute := SplitPath(path)
	return lo.Map(segments, func(seg string, _ int) string {
		return PascalCase(seg)
	}), absolute
}

// Canonical 返回规范化后的相对路径（不带前导分隔符）。
func Canonical(path string) string {
	segments, _ := CanonicalSegments(path)
	return JoinPath(segments...)
}

// JoinPath 用 "::" 拼接非空的路径段。
func JoinPath(segments ...string) string {
	return strings.Join(lo.Compact(segments), Separator)
}

// Namespace 返回限定名去掉最后一段后的命名空间，例如 "Api::V1::UsersController" 返回 "Api::V1"。
func Namespace(qualified string) string {
	segments, _ := SplitPath(qualified)
	if len(segments) <= 1 {
		return ""
	}
	return JoinPath(segments[:len(segments)-1]...)
}

// Base 返回限定名的最后一段。
func Base(qualified string) string {
	segments, _ := SplitPath(qualified)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}
