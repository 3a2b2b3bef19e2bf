package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logMode    string
)

var rootCmd = &cobra.Command{
	Use:           "video-mindmap",
	Short:         "视频分析与思维导图生成 MCP 服务",
	Long:          "通过 MCP 标准输入输出协议提供视频分析、思维导图JSON生成以及HTML/PNG渲染工具。不带子命令时启动 MCP 服务。",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径 (默认: config.yaml，不存在时忽略)")
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", "", "日志模式: dev 或 prod (默认取配置)")
}

func main() {
	// .env 不存在时忽略
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
