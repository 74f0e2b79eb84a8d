// Package export 把结果表编码为 CSV（UTF-8 + BOM，Excel 直接打开不乱码）。
package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/John-Robertt/latekan/internal/domain"
)

// BOM 是写在文件开头的 UTF-8 字节序标记。
const BOM = "\ufeff"

// Header 是 CSV 的表头（列顺序固定）。
var Header = []string{"length", "idea_no", "text", "writer", "used_title"}

// Encode 编码全部行。没有任何行时仍输出 BOM + 表头。
func Encode(rows []domain.IdeaRow) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write 把 BOM、表头与各行写到 w。
func Write(w io.Writer, rows []domain.IdeaRow) error {
	if _, err := io.WriteString(w, BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Length),
			strconv.Itoa(r.IdeaNo),
			r.Text,
			r.Writer,
			r.UsedTitle,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
