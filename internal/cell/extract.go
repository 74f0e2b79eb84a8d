package cell

import (
	"strings"

	"github.com/John-Robertt/latekan/internal/domain"
)

// Get 读取 pos 处的单元格文本（已去首尾空白）。
// 越界、空单元格、缺失值一律返回空串；不会 panic。
func Get(g domain.Grid, pos domain.Position) string {
	c := g.At(pos.Row, pos.Col)
	if !c.Valid {
		return ""
	}
	return strings.TrimSpace(c.Text)
}

// Lookup 按字段名读取；布局里没有该字段时回退到默认位置。
func Lookup(g domain.Grid, layout domain.Layout, f domain.Field) string {
	pos, ok := layout.Lookup(f)
	if !ok {
		return ""
	}
	return Get(g, pos)
}

// Extract 按布局一次性抽取全部字段（原样，不做标题/出演者规范化）。
func Extract(g domain.Grid, layout domain.Layout) domain.Program {
	return domain.Program{
		Title:      Lookup(g, layout, domain.FieldTitle),
		ShortTitle: Lookup(g, layout, domain.FieldShortTitle),
		Cast:       Lookup(g, layout, domain.FieldCast),
		DateLeft:   Lookup(g, layout, domain.FieldDateLeft),
		DateRight:  Lookup(g, layout, domain.FieldDateRight),
		TimeLeft:   Lookup(g, layout, domain.FieldTimeLeft),
		TimeRight:  Lookup(g, layout, domain.FieldTimeRight),
	}
}
