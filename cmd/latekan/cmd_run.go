package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/latekan/internal/app/run"
	"github.com/John-Robertt/latekan/internal/config"
	"github.com/John-Robertt/latekan/internal/domain"
	"github.com/John-Robertt/latekan/internal/export"
	"github.com/John-Robertt/latekan/internal/sheet"
)

func newRunCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		cli                   config.CLIArgs
		sub, dub, isNew, last bool
	)

	cmd := &cobra.Command{
		Use:   "run [input]",
		Short: "EPG 表を読み込み、文字数パターン別のラテ欄アイデアを出力します",
		Long: `EPG 表を読み込み、文字数パターン別のラテ欄アイデアを出力します。

出力：
  stdout が端末      人が読める結果表示
  stdout が端末以外  RunReport JSON を 1 つだけ出力
  --csv -            CSV（UTF-8 BOM 付き）を stdout に出力`,
		Example: `  latekan run epg.xlsx --lengths 10,5,4,3 --new --writer 佐藤
  latekan run epg.xlsx --csv latekans.csv
  latekan run epg.csv --short-title ドクプラ --csv - > latekans.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cli.Input = args[0]
			}
			f := cmd.Flags()
			cli.LengthsSet = f.Changed("lengths")
			cli.WriterSet = f.Changed("writer")
			cli.ShortTitleSet = f.Changed("short-title")
			cli.CSVSet = f.Changed("csv")
			cli.OverwriteSet = f.Changed("overwrite")
			cli.TruncateSet = f.Changed("truncate")
			cli.Marks = config.MarkFlags{
				Subtitled: changedBool(cmd, "sub", sub),
				Dubbed:    changedBool(cmd, "dub", dub),
				New:       changedBool(cmd, "new", isNew),
				Final:     changedBool(cmd, "final", last),
			}
			return runCmd(cmd.Context(), cli, stdout, stderr)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cli.ConfigPath, "config", "", "設定ファイル（既定：./latekan.json|yaml|yml があれば読み込み）")
	f.StringVar(&cli.Lengths, "lengths", config.DefaultLengths, "文字数パターン（カンマ区切り）")
	f.BoolVar(&sub, "sub", false, "字 マークあり")
	f.BoolVar(&dub, "dub", false, "デ マークあり")
	f.BoolVar(&isNew, "new", false, "新 マークあり")
	f.BoolVar(&last, "final", false, "終 マークあり")
	f.StringVar(&cli.Writer, "writer", "", "記入者のお名前")
	f.StringVar(&cli.ShortTitle, "short-title", "", "短縮版タイトル（B41 より優先）")
	f.StringVar(&cli.CSV, "csv", "", "CSV の出力先（- で stdout）")
	f.BoolVar(&cli.Overwrite, "overwrite", false, "既存の CSV を上書きする")
	f.StringVar(&cli.Truncate, "truncate", "rune", "文字数の数え方：rune|width")
	return cmd
}

func changedBool(cmd *cobra.Command, name string, v bool) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func runCmd(ctx context.Context, cli config.CLIArgs, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	cwd, err := os.Getwd()
	if err != nil {
		return &exitError{code: exitFailure, err: fmt.Errorf("カレントディレクトリを取得できません：%w", err)}
	}

	eff, err := config.LoadEffective(cwd, cli)
	if err != nil {
		rr := domain.RunReport{Lengths: []int{}}
		rr.Failed(config.Code(err), err.Error())
		rr.Finalize()
		emitReport(stdout, stderr, rr, false)
		return &exitError{code: exitUsage, silent: true, err: err}
	}

	var obs run.Observer
	if isTTY(stderr) {
		obs = newProgressUI(stderr)
	}

	rr := run.ExecuteWithObserver(ctx, eff, sheet.DefaultRegistry(), obs)

	toStdoutCSV := eff.CSVPath == "-" && rr.Status == domain.StatusOK
	if toStdoutCSV {
		if err := export.Write(stdout, rr.Rows); err != nil {
			return &exitError{code: exitFailure, err: fmt.Errorf("CSV の出力に失敗しました：%w", err)}
		}
		fmt.Fprintf(stderr, "完了：%d 文字数 / %d 案\n", rr.Totals.Lengths, rr.Totals.Ideas)
	} else {
		emitReport(stdout, stderr, rr, true)
	}

	if code := exitCodeFor(rr); code != exitOK {
		return &exitError{code: code, silent: true}
	}
	return nil
}

// exitCodeFor 把报告映射为退出码：校验类错误 2，读写失败 1。
func exitCodeFor(rr domain.RunReport) int {
	if rr.Status == domain.StatusOK {
		return exitOK
	}
	switch rr.ErrorCode {
	case domain.ErrCodeReadFailed, domain.ErrCodeWriteFailed:
		return exitFailure
	default:
		return exitUsage
	}
}

// emitReport 按输出契约写结果：stdout 是终端则给人看，否则只写一个 RunReport JSON。
func emitReport(stdout, stderr io.Writer, rr domain.RunReport, human bool) {
	if human && isTTY(stdout) {
		renderReport(stdout, rr)
		if rr.Status != domain.StatusOK {
			renderError(stderr, rr)
		}
		return
	}

	_ = json.NewEncoder(stdout).Encode(rr)
	if rr.Status != domain.StatusOK {
		fmt.Fprintf(stderr, "%s: %s\n", rr.ErrorCode, rr.ErrorMsg)
		return
	}
	fmt.Fprintf(stderr, "完了：%d 文字数 / %d 案\n", rr.Totals.Lengths, rr.Totals.Ideas)
}
