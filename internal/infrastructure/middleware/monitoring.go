package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	authRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Total number of unauthorized requests",
		},
		[]string{"reason"},
	)
	// OnlineUsers 最近一次统计的全站在线人数，由在线状态服务更新
	OnlineUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "playmate_online_users",
			Help: "Users with a fresh online heartbeat",
		},
	)
	// WebsocketSessions 当前 WebSocket 会话数
	WebsocketSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "playmate_websocket_sessions",
			Help: "Open realtime sessions",
		},
	)
)

var registerOnce sync.Once

// InitPrometheus 注册指标，main.go 中调用，重复调用无副作用
func InitPrometheus() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, authRejections, OnlineUsers, WebsocketSessions)
	})
}

// Monitor 记录请求数和耗时
// path 标签使用路由模板（如 /api/v1/preference/:key），避免按真实路径产生过多序列
func Monitor() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		httpRequestsTotal.WithLabelValues(path, c.Request.Method, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())

		if status == http.StatusForbidden {
			authRejections.WithLabelValues("403_forbidden").Inc()
		}
	}
}

// MetricsHandler 暴露 /metrics
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
