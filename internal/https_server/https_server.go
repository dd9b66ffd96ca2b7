// Package https_server 提供 HTTP/HTTPS 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件和路由
package https_server

import (
	"playmate_server/internal/config"                    // 配置管理
	"playmate_server/internal/handler"                   // Handler 聚合对象
	"playmate_server/internal/infrastructure/logger"     // 自定义日志中间件
	"playmate_server/internal/infrastructure/middleware" // 监控、HTTPS、限流
	"playmate_server/internal/router"                    // 路由注册

	"github.com/gin-contrib/cors" // CORS 跨域中间件
	"github.com/gin-gonic/gin"    // Gin Web 框架
)

// GE 全局 Gin 引擎实例，main.go 中用于启动服务
var GE *gin.Engine

// Init 初始化 HTTP/HTTPS 服务器并返回 Gin 引擎实例
// handlers: 通过依赖注入传入的 handler 聚合对象
// limiter: 为 nil 时不限流
// 配置顺序：
//  1. 创建 Gin 引擎（空白，不含默认中间件）
//  2. 注册日志、恢复、监控中间件
//  3. 配置 CORS 跨域规则
//  4. 可选的 HTTPS 重定向和限流
//  5. 注册指标和业务路由
func Init(conf *config.Config, handlers *handler.Handlers, limiter *middleware.IPRateLimiter) *gin.Engine {
	if conf.MainConfig.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	// 创建空白 Gin 引擎（不使用 gin.Default() 以便完全控制中间件）
	engine := gin.New()

	// GinLogger: 记录每个请求的详细信息（路径、状态码、耗时等）
	engine.Use(logger.GinLogger())
	// 参数 true 表示在日志中包含堆栈信息
	engine.Use(logger.GinRecovery(true))
	engine.Use(middleware.Monitor())

	// 配置 CORS 跨域规则
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // 允许所有来源（生产环境应指定具体域名）
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	// TLS 重定向中间件（如果由 Nginx 处理 SSL 则在配置中关闭）
	if conf.MainConfig.TLS {
		engine.Use(middleware.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port, conf.MainConfig.Mode == "dev"))
	}
	if limiter != nil {
		engine.Use(middleware.RateLimit(limiter))
	}

	if conf.MetricsConfig.Enabled {
		middleware.InitPrometheus()
		engine.GET(conf.MetricsConfig.Path, middleware.MetricsHandler())
	}

	// 创建路由管理器并注册所有业务路由
	rt := router.NewRouter(handlers)
	rt.RegisterRoutes(engine)

	GE = engine
	return engine
}
