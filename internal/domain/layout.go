package domain

import "fmt"

// Field 是 EPG 表中一个语义字段的名字。
type Field string

const (
	FieldTitle      Field = "title"
	FieldDateLeft   Field = "date_left"
	FieldDateRight  Field = "date_right"
	FieldTimeLeft   Field = "time_left"
	FieldTimeRight  Field = "time_right"
	FieldCast       Field = "cast"
	FieldShortTitle Field = "short_title"
)

// Fields 返回全部字段（顺序固定，便于输出稳定）。
func Fields() []Field {
	return []Field{
		FieldTitle,
		FieldDateLeft,
		FieldDateRight,
		FieldTimeLeft,
		FieldTimeRight,
		FieldCast,
		FieldShortTitle,
	}
}

// Position 是 0 基的 (row, col)。
type Position struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Layout 把语义字段映射到网格位置。
type Layout map[Field]Position

// DefaultLayout 对应标准 EPG 表：B7 标题、B3/E3 日期、B4/E4 时刻、B11 出演者、B41 短缩标题。
func DefaultLayout() Layout {
	return Layout{
		FieldTitle:      {Row: 6, Col: 1},
		FieldDateLeft:   {Row: 2, Col: 1},
		FieldDateRight:  {Row: 2, Col: 4},
		FieldTimeLeft:   {Row: 3, Col: 1},
		FieldTimeRight:  {Row: 3, Col: 4},
		FieldCast:       {Row: 10, Col: 1},
		FieldShortTitle: {Row: 40, Col: 1},
	}
}

// Clone 返回副本；nil 时返回默认布局。
func (l Layout) Clone() Layout {
	if l == nil {
		return DefaultLayout()
	}
	out := make(Layout, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// Lookup 返回字段位置；未配置的字段回退到默认布局。
func (l Layout) Lookup(f Field) (Position, bool) {
	if p, ok := l[f]; ok {
		return p, true
	}
	p, ok := DefaultLayout()[f]
	return p, ok
}
