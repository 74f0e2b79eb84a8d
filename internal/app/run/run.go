package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/John-Robertt/latekan/internal/app"
	"github.com/John-Robertt/latekan/internal/config"
	"github.com/John-Robertt/latekan/internal/domain"
	"github.com/John-Robertt/latekan/internal/export"
	"github.com/John-Robertt/latekan/internal/infra/fsx"
	"github.com/John-Robertt/latekan/internal/log"
	"github.com/John-Robertt/latekan/internal/metrics"
	"github.com/John-Robertt/latekan/internal/sheet"
)

// Source 是一次生成的输入：本地文件（Path）或上传内容（Body）。
// Name 用于按扩展名选择 Reader，也会出现在报告的 source 字段里。
type Source struct {
	Name string
	Path string
	Body io.Reader
}

// Execute 读取 eff.Input 并生成全部案，返回对外稳定的 RunReport。
// eff.CSVPath 为文件路径时同时原子写出 CSV（"-" 由调用方写到 stdout）。
func Execute(ctx context.Context, eff config.EffectiveConfig, reg sheet.Registry) domain.RunReport {
	return ExecuteWithObserver(ctx, eff, reg, nil)
}

// ExecuteWithObserver 与 Execute 相同，但允许传入 Observer 输出阶段信息（由上层决定是否启用）。
func ExecuteWithObserver(ctx context.Context, eff config.EffectiveConfig, reg sheet.Registry, obs Observer) domain.RunReport {
	if err := eff.RequireInput(); err != nil {
		rr := newReport("", eff.Request())
		rr.Failed(config.Code(err), err.Error())
		return finish(rr)
	}

	rr := ExecuteSource(ctx, Source{Name: eff.Input, Path: eff.Input}, eff.Request(), reg, obs)
	if rr.Status != domain.StatusOK || eff.CSVPath == "" || eff.CSVPath == "-" {
		return rr
	}

	started := time.Now()
	if err := writeCSV(eff.CSVPath, eff.Overwrite, rr.Rows); err != nil {
		rr.Failed(domain.ErrCodeWriteFailed, err.Error())
		lg := log.WithComponent("run")
		lg.Error().Err(err).Str("path", eff.CSVPath).Msg("csv export failed")
		return rr
	}
	if obs != nil {
		obs.OnPhaseDone("export", map[string]any{
			"path": eff.CSVPath,
			"rows": len(rr.Rows),
		}, time.Since(started))
	}
	return rr
}

// ExecuteSource 是 CLI 与 HTTP 共用的执行入口：读表 → 生成 → 汇总报告。
// 所有错误都降级为报告里的 status/error_code/error_msg，不会 panic。
func ExecuteSource(ctx context.Context, src Source, req domain.Request, reg sheet.Registry, obs Observer) domain.RunReport {
	lg := log.WithComponent("run")
	rr := newReport(filepath.Base(src.Name), req)

	if obs != nil {
		obs.OnStart(rr.Source, req)
	}

	readStarted := time.Now()
	grid, format, err := read(ctx, src, reg)
	metrics.RecordSheetRead(format, err == nil)
	if err != nil {
		code := domain.ErrCodeReadFailed
		if sheet.IsUnsupported(err) {
			code = domain.ErrCodeInputUnsupported
		}
		rr.Failed(code, readErrorMessage(code, err))
		lg.Warn().Err(err).Str("source", rr.Source).Str("error_code", code).Msg("sheet read failed")
		return finish(rr)
	}
	if obs != nil {
		obs.OnPhaseDone("read", map[string]any{
			"format": format,
			"rows":   grid.Rows(),
			"cols":   grid.Cols(),
		}, time.Since(readStarted))
	}

	genStarted := time.Now()
	res, err := app.Generate(grid, req)
	if err != nil {
		rr.Failed(domain.ErrCodeConfigInvalid, err.Error())
		return finish(rr)
	}
	rr.Program = res.Summary
	rr.Groups = res.Groups
	rr.Rows = res.Rows

	if obs != nil {
		obs.OnPhaseDone("generate", map[string]any{
			"lengths": len(res.Groups),
			"ideas":   len(res.Rows),
		}, time.Since(genStarted))
		for i, g := range res.Groups {
			obs.OnGroupDone(i+1, len(res.Groups), g)
		}
	}

	rr = finish(rr)
	lg.Info().
		Str("run_id", rr.RunID).
		Str("source", rr.Source).
		Str("format", format).
		Int("ideas", rr.Totals.Ideas).
		Msg("ideas generated")
	return rr
}

func newReport(source string, req domain.Request) domain.RunReport {
	return domain.RunReport{
		RunID:     uuid.NewString(),
		Source:    source,
		StartedAt: time.Now().UTC(),
		Lengths:   append([]int(nil), req.Lengths...),
		Marks:     req.Marks,
	}
}

func finish(rr domain.RunReport) domain.RunReport {
	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	outcome := rr.ErrorCode
	if rr.Status == domain.StatusOK {
		outcome = domain.StatusOK
	}
	metrics.RecordRun(outcome, rr.Totals.Ideas, rr.FinishedAt.Sub(rr.StartedAt).Seconds())
	return rr
}

func read(ctx context.Context, src Source, reg sheet.Registry) (domain.Grid, string, error) {
	if strings.TrimSpace(src.Path) != "" {
		return reg.Open(ctx, src.Path)
	}
	if src.Body == nil {
		return domain.Grid{}, "", errors.New("入力が空です")
	}
	return reg.ReadNamed(ctx, src.Name, src.Body)
}

func readErrorMessage(code string, err error) string {
	if code == domain.ErrCodeInputUnsupported {
		return err.Error()
	}
	return fmt.Sprintf("読み込み失敗: %v", err)
}

func writeCSV(path string, overwrite bool, rows []domain.IdeaRow) error {
	b, err := export.Encode(rows)
	if err != nil {
		return err
	}
	return fsx.WriteFile(path, b, overwrite)
}
