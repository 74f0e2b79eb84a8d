package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/latekan/internal/log"
)

// version 由构建时 -ldflags "-X main.version=..." 注入。
var version = "dev"

const (
	exitOK      = 0
	exitFailure = 1 // 读取/写出失败
	exitUsage   = 2 // 参数/配置/输入校验失败
)

// exitError 携带退出码；消息已经输出过时 silent=true。
type exitError struct {
	code   int
	silent bool
	err    error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute 运行 CLI 并返回退出码（测试直接调用，不经过 os.Exit）。
func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if !ee.silent {
			fmt.Fprintf(stderr, "エラー：%v\n", ee.err)
		}
		return ee.code
	}
	// cobra 的参数解析错误：用法错误。
	fmt.Fprintf(stderr, "エラー：%v\n", err)
	fmt.Fprintln(stderr, `"latekan --help" で使い方を確認できます。`)
	return exitUsage
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "latekan",
		Short: "EPG 表からラテ欄の文字数別アイデアを作成します",
		Long: `latekan は番組 EPG 表（xlsx / csv / tsv / html）から正式タイトル・短縮タイトル・出演者を読み取り、
指定した文字数パターンごとにラテ欄の案を最大 3 件ずつ作成します。`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Configure(log.Config{Level: logLevel, Output: stderr, Pretty: isTTY(stderr)})
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "ログレベル：debug|info|warn|error（既定 warn、環境変数 LATEKAN_LOG_LEVEL）")

	root.AddCommand(newRunCmd(stdout, stderr))
	root.AddCommand(newServeCmd(stderr))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "バージョンを表示します",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "latekan %s\n", version)
		},
	})
	return root
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
