package sheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"

	"github.com/John-Robertt/latekan/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSV 读取逗号（或 Comma 指定的字符）分隔的文本表。
//
// 编码：UTF-8（可带 BOM）；不是合法 UTF-8 时按 Shift_JIS 解码（日文版 Excel 的默认 CSV 编码）。
type CSV struct {
	Comma rune
	name  string
	exts  []string
}

// TSV 返回制表符分隔的 Reader。
func TSV() CSV {
	return CSV{Comma: '\t', name: "tsv", exts: []string{".tsv"}}
}

func (c CSV) Name() string {
	if c.name == "" {
		return "csv"
	}
	return c.name
}

func (c CSV) Extensions() []string {
	if len(c.exts) == 0 {
		return []string{".csv"}
	}
	return c.exts
}

func (c CSV) Read(ctx context.Context, r io.Reader) (domain.Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Grid{}, err
	}
	data, err = decodeText(data)
	if err != nil {
		return domain.Grid{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Grid{}, err
	}

	cr := csv.NewReader(bytes.NewReader(data))
	if c.Comma != 0 {
		cr.Comma = c.Comma
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return domain.Grid{}, err
	}
	return domain.NewGrid(rows), nil
}

func decodeText(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, nil
	}
	out, err := japanese.ShiftJIS.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("文字コードを判別できません（UTF-8 / Shift_JIS 以外）：%w", err)
	}
	return out, nil
}
