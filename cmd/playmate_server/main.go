package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"playmate_server/internal/config"
	dao "playmate_server/internal/dao/mysql"
	"playmate_server/internal/dao/mysql/repository"
	myredis "playmate_server/internal/dao/redis"
	"playmate_server/internal/gateway/websocket"
	"playmate_server/internal/handler"
	"playmate_server/internal/https_server"
	"playmate_server/internal/infrastructure/logger"
	"playmate_server/internal/infrastructure/middleware"
	"playmate_server/internal/infrastructure/mq"
	"playmate_server/internal/service"
	"playmate_server/pkg/util/jwt"
	"playmate_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()
	zap.L().Info("日志初始化成功")

	// 3. 初始化 JWT 和雪花 ID
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	snowflake.Init(conf.SnowflakeConfig.MachineID)
	zap.L().Info("JWT 初始化成功")

	// 4. 初始化数据库
	db, err := dao.Init(&conf.MysqlConfig, conf.MainConfig.Mode)
	if err != nil {
		zap.L().Fatal("数据库初始化失败", zap.Error(err))
	}
	repos := repository.NewRepositories(db)
	zap.L().Info("数据库初始化成功")

	// 5. 初始化 Redis
	cache, err := myredis.Init(&conf.RedisConfig)
	if err != nil {
		zap.L().Fatal("Redis 初始化失败", zap.Error(err))
	}
	zap.L().Info("Redis 初始化成功")

	// 6. 初始化事件总线
	ctx, cancel := context.WithCancel(context.Background())
	var broker mq.Broker
	if conf.KafkaConfig.MessageMode == "kafka" {
		broker = mq.NewKafkaBroker(&conf.KafkaConfig)
	} else {
		broker = mq.NewChannelBroker()
	}
	go broker.Start(ctx)
	zap.L().Info("事件总线初始化成功", zap.String("mode", conf.KafkaConfig.MessageMode))

	// 7. 初始化 Service 层 (依赖注入)
	service.InitServices(repos, cache, broker, service.Options{
		FreshnessWindow: conf.PresenceConfig.FreshnessWindow.Duration,
		RefreshTokenTTL: time.Duration(conf.JWTConfig.RefreshTokenExpiry) * time.Hour,
	})
	zap.L().Info("Service 层初始化成功")

	// 8. 初始化 WebSocket 网关
	websocket.InitGateway(websocket.Deps{
		Presence:      service.Svc.Presence,
		Notifications: service.Svc.Notification,
		Preferences:   service.Svc.Preference,
		Broker:        broker,
		Heartbeat:     conf.PresenceConfig.HeartbeatInterval.Duration,
	})
	zap.L().Info("WebSocket 网关初始化成功")

	// 9. 初始化 HTTPS 服务器
	var limiter *middleware.IPRateLimiter
	if conf.RateLimitConfig.Enabled {
		limiter = middleware.NewIPRateLimiter(conf.RateLimitConfig.RPS, conf.RateLimitConfig.Burst)
		go limiter.Cleanup(ctx)
	}
	engine := https_server.Init(conf, handler.NewHandlers(service.Svc, websocket.Hub), limiter)
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("初始化翻译器失败", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()
	zap.L().Info("服务启动", zap.String("addr", srv.Addr))

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// 等待信号
	<-quit
	zap.L().Info("关闭服务器...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server shutdown", zap.Error(err))
	}

	// 先关闭会话写入 offline，再停止事件总线和缓存
	websocket.Hub.Close()
	cancel()
	if err := broker.Close(); err != nil {
		zap.L().Error("close broker", zap.Error(err))
	}
	if err := cache.Close(); err != nil {
		zap.L().Error("close cache", zap.Error(err))
	}

	zap.L().Info("服务器已关闭")
}
