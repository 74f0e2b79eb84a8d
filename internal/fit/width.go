package fit

import (
	"golang.org/x/text/width"
)

// RuneWidth 返回单个字符的显示宽度：East Asian Wide/Fullwidth 记 2，其余（含 Ambiguous、半角片假名）记 1。
func RuneWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// StringWidth 返回字符串的显示宽度。
func StringWidth(s string) int {
	n := 0
	for _, r := range s {
		n += RuneWidth(r)
	}
	return n
}

// TrimWidth 把 s 截到显示宽度不超过 n；不会把宽字符切成半个。
// 结果的码点数必然 <= n，因此同样满足按码点计数的上限。
func TrimWidth(s string, n int) string {
	if n <= 0 {
		return ""
	}
	w := 0
	for pos, r := range s {
		rw := RuneWidth(r)
		if w+rw > n {
			return s[:pos]
		}
		w += rw
	}
	return s
}
