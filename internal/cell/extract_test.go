package cell

import (
	"testing"

	"github.com/John-Robertt/latekan/internal/domain"
)

// epgRows 构造一个 41 行 5 列的 EPG 表，只填写给定的单元格。
func epgRows(cells map[domain.Position]string) [][]string {
	rows := make([][]string, 41)
	for i := range rows {
		rows[i] = make([]string, 5)
	}
	for p, v := range cells {
		rows[p.Row][p.Col] = v
	}
	return rows
}

func TestGet_NeverFails(t *testing.T) {
	g := domain.NewGrid(epgRows(map[domain.Position]string{
		{Row: 6, Col: 1}: "  DOCTOR PRICE  ",
		{Row: 10, Col: 1}: "nan",
	}))

	cases := []struct {
		pos  domain.Position
		want string
	}{
		{domain.Position{Row: 6, Col: 1}, "DOCTOR PRICE"},
		{domain.Position{Row: 10, Col: 1}, ""},
		{domain.Position{Row: 0, Col: 0}, ""},
		{domain.Position{Row: 99, Col: 1}, ""},
		{domain.Position{Row: 6, Col: 99}, ""},
		{domain.Position{Row: -3, Col: -3}, ""},
	}
	for _, tc := range cases {
		if got := Get(g, tc.pos); got != tc.want {
			t.Fatalf("Get(%v) 期望 %q，实际 %q", tc.pos, tc.want, got)
		}
	}

	// 空网格同样不应出错。
	if got := Get(domain.Grid{}, domain.Position{Row: 6, Col: 1}); got != "" {
		t.Fatalf("空网格期望空串，实际 %q", got)
	}
}

func TestExtract_DefaultLayout(t *testing.T) {
	g := domain.NewGrid(epgRows(map[domain.Position]string{
		{Row: 6, Col: 1}:  "DOCTOR PRICE（ドクタープライス）",
		{Row: 2, Col: 1}:  "2026/10/19",
		{Row: 2, Col: 4}:  "(月)",
		{Row: 3, Col: 1}:  "21:00",
		{Row: 3, Col: 4}:  "21:54",
		{Row: 10, Col: 1}: "田中太郎、山田花子",
		{Row: 40, Col: 1}: "ドクプラ",
	}))

	p := Extract(g, domain.DefaultLayout())
	want := domain.Program{
		Title:      "DOCTOR PRICE（ドクタープライス）",
		ShortTitle: "ドクプラ",
		Cast:       "田中太郎、山田花子",
		DateLeft:   "2026/10/19",
		DateRight:  "(月)",
		TimeLeft:   "21:00",
		TimeRight:  "21:54",
	}
	if p != want {
		t.Fatalf("抽取结果不符：\n期望 %+v\n实际 %+v", want, p)
	}
}

func TestExtract_CustomLayoutAndShortSheet(t *testing.T) {
	// 只有 3 行的表：短缩标题位置越界，也不应报错。
	g := domain.NewGrid([][]string{
		{"タイトル", "番組A"},
		{"出演", "佐藤 鈴木"},
	})
	layout := domain.Layout{
		domain.FieldTitle: {Row: 0, Col: 1},
		domain.FieldCast:  {Row: 1, Col: 1},
	}
	p := Extract(g, layout)
	if p.Title != "番組A" || p.Cast != "佐藤 鈴木" {
		t.Fatalf("自定义布局未生效：%+v", p)
	}
	if p.ShortTitle != "" || p.DateLeft != "" {
		t.Fatalf("越界字段应为空：%+v", p)
	}
}
