//go:build amd64 || arm64

package json

import (
	"github.com/bytedance/sonic"
)

var (
	std API = sonic.Config{
		EscapeHTML:  true,
		SortMapKeys: true,
		CopyString:  true,
	}.Froze()

	number API = sonic.Config{
		EscapeHTML:  true,
		SortMapKeys: true,
		CopyString:  true,
		UseNumber:   true,
	}.Froze()
)
