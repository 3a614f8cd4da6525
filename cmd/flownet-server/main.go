package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/LENAX/flownet/internal/storage"
	"github.com/LENAX/flownet/pkg/api"
	"github.com/LENAX/flownet/pkg/config"
	"github.com/LENAX/flownet/pkg/core/engine"
)

var (
	Version   = "0.3.1"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	// 命令行参数
	configPath := flag.String("config", "./configs/flownet.yaml", "服务配置文件路径")
	host := flag.String("host", "0.0.0.0", "监听地址")
	port := flag.Int("port", 8080, "监听端口")
	flag.Parse()

	log.Printf("Flownet Server v%s", Version)
	log.Printf("配置文件: %s", *configPath)

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 创建存储仓储与流网管理器
	repo, err := storage.NewNetworkRepository(cfg.GetDatabaseType(), cfg.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("创建存储仓储失败: %v", err)
	}
	manager := engine.NewNetworkManager(repo, cfg)

	// 3. 启动定期完整性校验
	var scheduler *engine.RevalidationScheduler
	if cfg.Flownet.Revalidation.Enabled {
		scheduler = engine.NewRevalidationScheduler(manager)
		if err := scheduler.Register(cfg.Flownet.Revalidation.CronExpr); err != nil {
			log.Fatalf("注册完整性校验任务失败: %v", err)
		}
		scheduler.Start()
	}

	// 4. 创建API服务器
	serverConfig := api.ServerConfig{
		Host:                 *host,
		Port:                 *port,
		ReadTimeout:          api.DefaultServerConfig().ReadTimeout,
		WriteTimeout:         api.DefaultServerConfig().WriteTimeout,
		StreamBatchSize:      cfg.GetStreamBatchSize(),
		PerComponentDistance: cfg.Flownet.Query.PerComponentDistance,
	}

	apiServer := api.NewAPIServer(manager, serverConfig, Version)

	// 5. 在goroutine中启动API服务器
	go func() {
		if err := apiServer.Start(); err != nil {
			log.Printf("API服务器错误: %v", err)
		}
	}()

	log.Printf("✅ Flownet Server started on %s:%d", *host, *port)

	// 6. 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 7. 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), api.DefaultServerConfig().WriteTimeout)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("关闭API服务器失败: %v", err)
	}

	if scheduler != nil {
		scheduler.Stop()
	}
	if err := manager.Close(); err != nil {
		log.Printf("关闭流网管理器失败: %v", err)
	}
	log.Println("✅ 服务已停止")
}
