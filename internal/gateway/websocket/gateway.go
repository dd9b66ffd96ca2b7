package websocket

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"playmate_server/internal/infrastructure/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	// 检查连接的Origin头
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Gateway 管理所有在线会话
type Gateway struct {
	deps Deps

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[*Session]struct{}
	wg       sync.WaitGroup
}

// NewGateway 创建网关，Close 会结束全部会话
func NewGateway(deps Deps) *Gateway {
	ctx, cancel := context.WithCancel(context.Background())
	return &Gateway{
		deps:     deps,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[*Session]struct{}),
	}
}

// Hub 全局网关实例，在 main.go 中通过 InitGateway 初始化
var Hub *Gateway

// InitGateway 初始化全局网关
func InitGateway(deps Deps) {
	Hub = NewGateway(deps)
}

// Serve 升级连接并在后台运行会话
func (g *Gateway) Serve(w http.ResponseWriter, r *http.Request, userId string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	s := NewSession(conn, userId, g.deps)

	g.mu.Lock()
	g.sessions[s] = struct{}{}
	g.mu.Unlock()
	g.wg.Add(1)
	middleware.WebsocketSessions.Inc()
	zap.L().Info("ws连接成功", zap.String("user_id", userId))

	go func() {
		defer g.wg.Done()
		defer middleware.WebsocketSessions.Dec()
		s.Run(g.ctx)

		g.mu.Lock()
		delete(g.sessions, s)
		g.mu.Unlock()
		zap.L().Info("ws连接断开", zap.String("user_id", userId))
	}()
	return nil
}

// SessionCount 当前会话数
func (g *Gateway) SessionCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sessions)
}

// Close 结束全部会话并等待其写入 offline
func (g *Gateway) Close() {
	g.cancel()
	g.wg.Wait()
}
