package cast

import (
	"regexp"
	"strings"
)

// Separator 是规范化后出演者之间的分隔符（読点）。
const Separator = "、"

// 分隔符变体：全角/半角逗号、半角/全角斜杠、中黑、読点、任意空白（含全角空格）。
// RE2 的 \s 只认 ASCII 空白，所以额外带上 \p{Z}。
var delimRE = regexp.MustCompile(`[、，,/／・\s\p{Z}\x{85}]+`)

// Split 按分隔符变体切分，并丢弃空项。
func Split(raw string) []string {
	parts := delimRE.Split(strings.TrimSpace(raw), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Normalize 把自由文本的出演者栏规范化为 "甲、乙、丙"。
// 对已规范化的文本再次调用结果不变。
func Normalize(raw string) string {
	return strings.Join(Split(raw), Separator)
}

// FirstN 取前 n 名出演者；n<=0 返回空串，不足 n 名时全部返回。
func FirstN(cast string, n int) string {
	if cast == "" || n <= 0 {
		return ""
	}
	names := Split(cast)
	if len(names) > n {
		names = names[:n]
	}
	return strings.Join(names, Separator)
}
