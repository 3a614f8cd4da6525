package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LENAX/flownet/internal/storage"
	"github.com/LENAX/flownet/pkg/api"
	"github.com/LENAX/flownet/pkg/cli/output"
	"github.com/LENAX/flownet/pkg/config"
	"github.com/LENAX/flownet/pkg/core/engine"
)

var (
	serverPort int
	serverHost string
	configPath string
)

// serverCmd server子命令
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "服务管理命令",
	Long:  `管理Flownet HTTP API服务。`,
}

// serverStartCmd 启动服务
var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "启动HTTP API服务",
	Long: `启动Flownet HTTP API服务。

示例：
  # 使用默认配置启动
  flownet server start

  # 指定端口启动
  flownet server start --port 8080

  # 指定配置文件启动
  flownet server start --config ./configs/flownet.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 查找配置文件（缺省时使用内置默认值）
		if configPath == "" {
			defaultPaths := []string{
				"./configs/flownet.yaml",
				"./config/flownet.yaml",
				"./flownet.yaml",
			}
			for _, p := range defaultPaths {
				if _, err := os.Stat(p); err == nil {
					configPath = p
					break
				}
			}
		}
		if configPath != "" {
			output.Info("使用配置文件: %s", configPath)
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			output.Error("加载配置失败: %v", err)
			return err
		}

		// 创建存储仓储
		repo, err := storage.NewNetworkRepository(cfg.GetDatabaseType(), cfg.GetDatabaseDSN())
		if err != nil {
			output.Error("创建存储仓储失败: %v", err)
			return err
		}

		// 创建流网管理器
		manager := engine.NewNetworkManager(repo, cfg)

		// 启动定期完整性校验
		var scheduler *engine.RevalidationScheduler
		if cfg.Flownet.Revalidation.Enabled {
			scheduler = engine.NewRevalidationScheduler(manager)
			if err := scheduler.Register(cfg.Flownet.Revalidation.CronExpr); err != nil {
				output.Error("注册完整性校验任务失败: %v", err)
				return err
			}
			scheduler.Start()
		}

		// 创建API服务器配置
		serverConfig := api.ServerConfig{
			Host:                 serverHost,
			Port:                 serverPort,
			ReadTimeout:          api.DefaultServerConfig().ReadTimeout,
			WriteTimeout:         api.DefaultServerConfig().WriteTimeout,
			StreamBatchSize:      cfg.GetStreamBatchSize(),
			PerComponentDistance: cfg.Flownet.Query.PerComponentDistance,
		}

		// 创建并启动API服务器
		apiServer := api.NewAPIServer(manager, serverConfig, Version)

		// 在goroutine中启动服务器
		go func() {
			if err := apiServer.Start(); err != nil {
				log.Printf("API服务器错误: %v", err)
			}
		}()

		output.Success("Flownet Server started on %s:%d", serverHost, serverPort)

		// 等待中断信号
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		output.Info("正在关闭服务...")

		// 优雅关闭
		shutdownCtx, cancel := context.WithTimeout(context.Background(), api.DefaultServerConfig().WriteTimeout)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			output.Error("关闭API服务器失败: %v", err)
		}

		if scheduler != nil {
			scheduler.Stop()
		}
		if err := manager.Close(); err != nil {
			output.Error("关闭流网管理器失败: %v", err)
		}
		output.Success("服务已停止")

		return nil
	},
}

func init() {
	serverStartCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "监听端口")
	serverStartCmd.Flags().StringVarP(&serverHost, "host", "H", "0.0.0.0", "监听地址")
	serverStartCmd.Flags().StringVarP(&configPath, "config", "c", "", "配置文件路径")

	serverCmd.AddCommand(serverStartCmd)
}
