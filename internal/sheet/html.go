package sheet

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/latekan/internal/domain"
)

// maxSpan 限制 colspan/rowspan，避免畸形文件撑出巨大网格。
const maxSpan = 256

// HTML 读取 HTML 文档中的第一个 <table>（Excel「Web ページとして保存」的导出结果）。
//
// 合并单元格（colspan/rowspan）展开为空单元格，保证行列坐标与原工作表一致。
// 嵌套表格的行不计入外层表格。
type HTML struct{}

func (HTML) Name() string { return "html" }

func (HTML) Extensions() []string { return []string{".html", ".htm"} }

func (HTML) Read(ctx context.Context, r io.Reader) (domain.Grid, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return domain.Grid{}, err
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return domain.Grid{}, errors.New("<table> が見つかりません")
	}
	if err := ctx.Err(); err != nil {
		return domain.Grid{}, err
	}

	// carry[col] = 该列还需被上方 rowspan 占用的行数。
	carry := map[int]int{}
	var rows [][]string

	table.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Closest("table").IsSelection(table)
	}).Each(func(_ int, tr *goquery.Selection) {
		row := make([]string, 0, 8)
		col := 0
		skipCarried := func() {
			for carry[col] > 0 {
				carry[col]--
				row = append(row, "")
				col++
			}
		}

		tr.ChildrenFiltered("td, th").Each(func(_ int, td *goquery.Selection) {
			skipCarried()
			text := cellText(td)
			cs := spanAttr(td, "colspan")
			rs := spanAttr(td, "rowspan")
			for k := 0; k < cs; k++ {
				if k == 0 {
					row = append(row, text)
				} else {
					row = append(row, "")
				}
				if rs > 1 {
					carry[col] = rs - 1
				}
				col++
			}
		})

		// 行尾仍被 rowspan 占用的列。
		last := -1
		for c, n := range carry {
			if n > 0 && c >= col && c > last {
				last = c
			}
		}
		for ; col <= last; col++ {
			if carry[col] > 0 {
				carry[col]--
			}
			row = append(row, "")
		}

		rows = append(rows, row)
	})

	return domain.NewGrid(rows), nil
}

// brMark 暂存 <br> 的位置；源码里的换行只是空白，<br> 才是单元格内换行。
const brMark = "\x1e"

func cellText(td *goquery.Selection) string {
	td.Find("br").ReplaceWithHtml(brMark)
	lines := make([]string, 0, 2)
	for _, part := range strings.Split(td.Text(), brMark) {
		if l := normSpace(part); l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}

func spanAttr(td *goquery.Selection, name string) int {
	v, ok := td.Attr(name)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	if n > maxSpan {
		return maxSpan
	}
	return n
}

func normSpace(s string) string { return strings.Join(strings.Fields(s), " ") }
