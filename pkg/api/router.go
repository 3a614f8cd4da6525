package api

import (
	"github.com/gin-gonic/gin"

	"github.com/LENAX/flownet/pkg/api/handler"
	"github.com/LENAX/flownet/pkg/api/middleware"
	"github.com/LENAX/flownet/pkg/core/engine"
)

// SetupRouter 设置路由
func SetupRouter(m *engine.NetworkManager, version string, streamBatchSize int, perComponentDefault bool) *gin.Engine {
	// 设置gin模式
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// 全局中间件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())

	// 创建handlers
	networkHandler := handler.NewNetworkHandler(m)
	traceHandler := handler.NewTraceHandler(m, perComponentDefault)
	gageHandler := handler.NewGageHandler(m)
	streamHandler := handler.NewStreamHandler(m, streamBatchSize)
	healthHandler := handler.NewHealthHandler(version)

	// 健康检查路由（不带前缀）
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API v1 路由组
	v1 := router.Group("/api/v1")
	{
		// 流网路由
		networks := v1.Group("/networks")
		{
			networks.GET("", networkHandler.List)
			networks.POST("", networkHandler.Ingest)
			networks.GET("/:id", networkHandler.Get)
			networks.DELETE("/:id", networkHandler.Delete)
			networks.GET("/:id/distances", traceHandler.Distances)

			// 段级查询路由
			networks.GET("/:id/segments/:sid/upstream", traceHandler.Upstream)
			networks.GET("/:id/segments/:sid/upstream/stream", streamHandler.UpstreamStream)
			networks.GET("/:id/segments/:sid/mainstem", traceHandler.Mainstem)
			networks.GET("/:id/segments/:sid/downstream", traceHandler.Downstream)
			networks.GET("/:id/segments/:sid/gages", gageHandler.Upstream)

			// 站点路由
			networks.GET("/:id/gages", gageHandler.List)
			networks.POST("/:id/gages", gageHandler.Register)
			networks.GET("/:id/gages/distance", gageHandler.Distance)
		}
	}

	return router
}
