package compose

import (
	"strings"

	"github.com/John-Robertt/latekan/internal/domain"
)

// Compose 组装一条ラテ欄文字：[字][デ] + [新] + 标题 + [終] + 出演者。
//
// 字/デ 的顺序固定（与勾选顺序无关）；标题与出演者之间不加分隔符（ラテ欄排版惯例）。
func Compose(title, cast string, marks domain.MarkSet) string {
	var b strings.Builder
	b.Grow(len(title) + len(cast) + 4*3)

	if marks.Subtitled {
		b.WriteString(domain.MarkSubtitled)
	}
	if marks.Dubbed {
		b.WriteString(domain.MarkDubbed)
	}
	if marks.New {
		b.WriteString(domain.MarkNew)
	}
	b.WriteString(title)
	if marks.Final {
		b.WriteString(domain.MarkFinal)
	}
	b.WriteString(cast)
	return b.String()
}
