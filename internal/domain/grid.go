package domain

import "strings"

// Cell 是网格中的一个单元格。
// Valid=false 表示缺失值（空单元格、越界、或上游导出的 "nan" 占位）。
type Cell struct {
	Text  string
	Valid bool
}

// Grid 是只读的二维单元格表（0 基行列）。
//
// 约束：
// - 越界访问返回缺失值，不 panic
// - "nan" 占位只在 NewGrid 里转换一次；业务代码不再做字符串哨兵判断
type Grid struct {
	rows [][]Cell
}

// NewGrid 从读取器产出的原始字符串表构造 Grid。
// 行可以参差不齐（xlsx 读取时行尾空单元格会被省略）。
func NewGrid(rows [][]string) Grid {
	g := Grid{rows: make([][]Cell, len(rows))}
	for r, row := range rows {
		cells := make([]Cell, len(row))
		for c, v := range row {
			cells[c] = newCell(v)
		}
		g.rows[r] = cells
	}
	return g
}

func newCell(v string) Cell {
	v = strings.TrimSpace(v)
	if v == "" || IsMissingSentinel(v) {
		return Cell{}
	}
	return Cell{Text: v, Valid: true}
}

// IsMissingSentinel 判断文本是否为表格工具导出的缺失值占位（大小写不敏感的 "nan"）。
func IsMissingSentinel(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "nan")
}

// At 返回 (row, col) 处的单元格；越界返回缺失值。
func (g Grid) At(row, col int) Cell {
	if row < 0 || col < 0 || row >= len(g.rows) {
		return Cell{}
	}
	cells := g.rows[row]
	if col >= len(cells) {
		return Cell{}
	}
	return cells[col]
}

// Rows 返回行数。
func (g Grid) Rows() int { return len(g.rows) }

// Cols 返回最宽一行的列数。
func (g Grid) Cols() int {
	n := 0
	for _, r := range g.rows {
		if len(r) > n {
			n = len(r)
		}
	}
	return n
}
