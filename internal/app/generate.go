package app

import (
	"github.com/John-Robertt/latekan/internal/cast"
	"github.com/John-Robertt/latekan/internal/cell"
	"github.com/John-Robertt/latekan/internal/domain"
	"github.com/John-Robertt/latekan/internal/fit"
	"github.com/John-Robertt/latekan/internal/title"
)

// Result 是一次生成的纯计算结果（不含 IO、时间、run_id）。
type Result struct {
	Program domain.Program
	Summary domain.Summary
	Groups  []domain.LengthGroup
	Rows    []domain.IdeaRow
}

// Generate 从网格和请求计算全部案：
// 抽取字段 → 正式标题优先拉丁文 → 出演者规范化 → 解析短缩标题 → 按文字数生成。
//
// 这是纯函数：同样的输入总是得到同样的输出。
func Generate(g domain.Grid, req domain.Request) (Result, error) {
	mode, err := fit.ParseMode(req.Truncate)
	if err != nil {
		return Result{}, err
	}

	raw := cell.Extract(g, req.Layout)

	p := raw
	p.Title = title.PreferLatin(raw.Title)
	p.Cast = cast.Normalize(raw.Cast)
	p.ShortTitle = title.ResolveShort(req.ShortTitle, raw.ShortTitle)

	groups := GroupByLength(req.Lengths, p.Title, p.ShortTitle, p.Cast, req.Marks, fit.Fitter{Mode: mode})

	return Result{
		Program: p,
		Summary: p.Summarize(req.Writer),
		Groups:  groups,
		Rows:    FlattenRows(groups, req.Writer),
	}, nil
}
