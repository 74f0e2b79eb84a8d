package title

import (
	"regexp"
	"strings"
)

var (
	latinRE = regexp.MustCompile(`[A-Za-z]`)
	// 行尾的读音注记：全角/半角括号均可，括号可混用（例如 "（...)"）。
	trailingParenRE = regexp.MustCompile(`[（(][^）)]*[）)][\s\p{Z}]*$`)
	// 任意位置的括号组及其两侧空白。
	anyParenRE = regexp.MustCompile(`[\s\p{Z}]*[（(][^）)]*[）)][\s\p{Z}]*`)
)

// HasLatin 判断字符串中是否含有 ASCII 拉丁字母。
func HasLatin(s string) bool {
	return latinRE.MatchString(s)
}

// PreferLatin 对含拉丁字母的标题去掉括号里的读音注记；不含拉丁字母的标题原样返回（不做任何转写）。
//
// 例："DOCTOR PRICE（ドクタープライス）" => "DOCTOR PRICE"
func PreferLatin(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if !HasLatin(s) {
		return s
	}
	s = strings.TrimSpace(trailingParenRE.ReplaceAllString(s, ""))
	s = strings.TrimSpace(anyParenRE.ReplaceAllString(s, " "))
	return s
}

// ShortTitleMaxLength 是优先使用短缩标题的文字数上限（含）。
const ShortTitleMaxLength = 10

// Select 按文字数选择标题：length<=10 且存在短缩标题时用短缩标题，否则用正式标题。
func Select(length int, main, short string) string {
	if length <= ShortTitleMaxLength && short != "" {
		return short
	}
	return main
}

// ResolveShort 决定短缩标题的来源：手工输入 > 表格短缩标题单元格。
// 两者都为空时返回空串，由 Select 回退到正式标题。
func ResolveShort(override, fromGrid string) string {
	if o := strings.TrimSpace(override); o != "" {
		return o
	}
	return strings.TrimSpace(fromGrid)
}
