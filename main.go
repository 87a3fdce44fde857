package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"budget/config"
	"budget/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// @title 月度预算 API
// @version 1.0
// @description 按月管理预算：创建预算、记录收支条目、查看统计与导出报表
// @host localhost:8200
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile string
	version    = "dev"
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:               "budget",
	Short:             "月度预算服务",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "外部配置文件路径（可选）")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig 加载 .env 和配置，并初始化全局日志
func loadConfig(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	// .env 不存在时忽略
	_ = godotenv.Load()

	var err error
	cfg, err = config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	logger.SetGlobal(logger.New(cfg.Log.Level, cfg.Log.Format))
	return nil
}
