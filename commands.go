package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"budget/config"
	"budget/database"
	"budget/middleware"
	"budget/router"
	"budget/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port != "" {
				if !strings.HasPrefix(port, ":") {
					port = ":" + port
				}
				cfg.Server.Port = port
			}
			config.PrintConfig()

			st, err := database.Open(cfg)
			if err != nil {
				return err
			}
			middleware.InitJWT(cfg)

			srv := &http.Server{
				Addr:              cfg.Server.Port,
				Handler:           router.SetupRouter(cfg, st),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.Server.Port).Msg("服务已启动")
				log.Info().Msgf("Swagger: http://localhost%s/swagger/index.html", cfg.Server.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			log.Info().Msg("正在关闭服务")
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "监听端口，如: 8200 或 :8200")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "迁移数据库表结构",
		RunE: func(*cobra.Command, []string) error {
			if err := database.Init(cfg); err != nil {
				return err
			}
			return database.Migrate(database.GetDB())
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "写入演示账号（用户表为空时）",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := database.Open(cfg)
			if err != nil {
				return err
			}
			n, err := service.NewAuthService(st).Seed(cmd.Context())
			if err != nil {
				return fmt.Errorf("写入演示账号失败: %w", err)
			}
			log.Info().Int("created", n).Strs("users", service.DemoUsers).Msg("演示账号已就绪")
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("budget %s\n", version)
		},
	}
}
