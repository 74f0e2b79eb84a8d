package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/latekan/internal/config"
	"github.com/John-Robertt/latekan/internal/server"
	"github.com/John-Robertt/latekan/internal/sheet"
)

func newServeCmd(stderr io.Writer) *cobra.Command {
	var cli config.CLIArgs

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "HTTP サーバーとして起動します（POST /api/v1/ideas）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cli.AddrSet = cmd.Flags().Changed("addr")

			cwd, err := os.Getwd()
			if err != nil {
				return &exitError{code: exitFailure, err: err}
			}
			eff, err := config.LoadEffective(cwd, cli)
			if err != nil {
				return &exitError{code: exitUsage, err: err}
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(stderr, "latekan serve: http://%s\n", displayAddr(eff.Server.Addr))
			if err := server.New(eff, sheet.DefaultRegistry()).ListenAndServe(ctx); err != nil {
				return &exitError{code: exitFailure, err: err}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cli.ConfigPath, "config", "", "設定ファイル")
	cmd.Flags().StringVar(&cli.Addr, "addr", config.DefaultAddr, "待ち受けアドレス")
	return cmd
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
