package sheet

import (
	"context"
	"errors"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/John-Robertt/latekan/internal/domain"
)

// XLSX 读取 Excel 工作簿的第一个工作表。
// 单元格取格式化后的显示值（日期/时刻按单元格的数字格式输出）。
type XLSX struct{}

func (XLSX) Name() string { return "xlsx" }

func (XLSX) Extensions() []string { return []string{".xlsx", ".xlsm"} }

func (XLSX) Read(ctx context.Context, r io.Reader) (domain.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.Grid{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.Grid{}, errors.New("ワークシートがありません")
	}
	if err := ctx.Err(); err != nil {
		return domain.Grid{}, err
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return domain.Grid{}, err
	}
	return domain.NewGrid(rows), nil
}
