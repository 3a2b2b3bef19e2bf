package processors

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Sanitize 把任意输入转成单行、无控制字符、NFC 规范化的字符串。
// 多次调用结果不变。
func Sanitize(input any) string {
	var s string
	switch v := input.(type) {
	case nil:
		return ""
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		s = fmt.Sprint(v)
	}

	// 先处理控制字符再做规范化：删除字符后可能出现新的可组合序列
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n', r == '\t', r == '\f':
			b.WriteRune(' ')
		case r < 0x20, r == 0x7f:
			// \r 及其余控制字符直接丢弃
		default:
			b.WriteRune(r)
		}
	}
	return norm.NFC.String(b.String())
}

// FoldQuotes 将双引号替换为单引号
func FoldQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, "'")
}
