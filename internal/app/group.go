package app

import (
	"github.com/John-Robertt/latekan/internal/domain"
	"github.com/John-Robertt/latekan/internal/fit"
	"github.com/John-Robertt/latekan/internal/title"
)

// GroupByLength 按文字数模式逐个生成案，得到 LengthGroup 列表。
//
// - groups 顺序即 lengths 的输入顺序（重复的文字数各自成组）
// - 没有任何案的文字数也保留一组（Ideas 为空），便于展示“0 案”
func GroupByLength(lengths []int, mainTitle, shortTitle, castText string, marks domain.MarkSet, f fit.Fitter) []domain.LengthGroup {
	groups := make([]domain.LengthGroup, 0, len(lengths))
	for _, l := range lengths {
		ideas := f.GenerateIdeas(mainTitle, shortTitle, castText, marks, l)
		if ideas == nil {
			ideas = []string{}
		}
		groups = append(groups, domain.LengthGroup{
			Length:    l,
			UsedTitle: title.Select(l, mainTitle, shortTitle),
			Ideas:     ideas,
		})
	}
	return groups
}

// FlattenRows 把分组展开为结果表的行（idea_no 从 1 开始）。
func FlattenRows(groups []domain.LengthGroup, writer string) []domain.IdeaRow {
	n := 0
	for _, g := range groups {
		n += len(g.Ideas)
	}
	rows := make([]domain.IdeaRow, 0, n)
	for _, g := range groups {
		for i, idea := range g.Ideas {
			rows = append(rows, domain.IdeaRow{
				Length:    g.Length,
				IdeaNo:    i + 1,
				Text:      idea,
				Writer:    writer,
				UsedTitle: g.UsedTitle,
			})
		}
	}
	return rows
}
