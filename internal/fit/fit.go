package fit

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/John-Robertt/latekan/internal/cast"
	"github.com/John-Robertt/latekan/internal/compose"
	"github.com/John-Robertt/latekan/internal/domain"
	"github.com/John-Robertt/latekan/internal/title"
)

// Mode 决定文字数的计量方式。
type Mode string

const (
	// ModeRune 按码点计数（默认）。
	ModeRune Mode = "rune"
	// ModeWidth 按显示宽度计数：全角/宽字符记 2，其余记 1。
	ModeWidth Mode = "width"
)

// ParseMode 解析配置中的计量方式；空串视为 rune。
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeRune:
		return ModeRune, nil
	case ModeWidth:
		return ModeWidth, nil
	default:
		return "", fmt.Errorf("truncate は rune または width を指定してください（指定値：%q）", s)
	}
}

// MaxIdeas 是每个文字数最多生成的案数。
const MaxIdeas = 3

// Trim 把 s 截到最多 n 个码点；n<=0 返回空串。
func Trim(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Fitter 按文字数生成候选并截断、去重。零值即按码点计数。
type Fitter struct {
	Mode Mode
}

// Trim 按 Fitter 的计量方式截断。
func (f Fitter) Trim(s string, n int) string {
	if f.Mode == ModeWidth {
		return TrimWidth(s, n)
	}
	return Trim(s, n)
}

// GenerateIdeas 为一个文字数生成最多 3 条案，优先级固定：
// 标题+全部出演者 > 标题+前 2 名 > 仅标题。
// 截断后为空或与已采纳的案重复的会被丢弃（先到先得，顺序保持）。
func (f Fitter) GenerateIdeas(mainTitle, shortTitle, castText string, marks domain.MarkSet, length int) []string {
	t := title.Select(length, mainTitle, shortTitle)
	raw := [MaxIdeas]string{
		compose.Compose(t, castText, marks),
		compose.Compose(t, cast.FirstN(castText, 2), marks),
		compose.Compose(t, "", marks),
	}

	out := make([]string, 0, MaxIdeas)
	for _, x := range raw {
		s := f.Trim(x, length)
		if s == "" || contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// GenerateIdeas 使用默认（码点计数）方式生成案。
func GenerateIdeas(mainTitle, shortTitle, castText string, marks domain.MarkSet, length int) []string {
	return Fitter{}.GenerateIdeas(mainTitle, shortTitle, castText, marks, length)
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
