// Package presence 在线状态
// 是否在线只由 status=online 且心跳在新鲜度窗口内共同决定
// 客户端异常断开时不会写 offline，窗口过期即自然下线
package presence

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"playmate_server/internal/dao/mysql/repository"
	myredis "playmate_server/internal/dao/redis"
	"playmate_server/internal/dto/respond"
	"playmate_server/internal/infrastructure/middleware"
	"playmate_server/internal/infrastructure/mq"
	"playmate_server/internal/model"
	"playmate_server/internal/service/friend"
	"playmate_server/pkg/constants"
	"playmate_server/pkg/errorx"
	"playmate_server/pkg/util/clock"
)

// IsOnline 判断一条在线记录在 now 时刻是否有效
// 心跳距今达到 window 即视为离线，与 status 无关
func IsOnline(p *model.Presence, now time.Time, window time.Duration) bool {
	if p == nil || p.Status != model.PresenceOnline {
		return false
	}
	return now.Sub(p.LastSeen) < window
}

// presenceService 在线状态业务逻辑实现
type presenceService struct {
	repos  *repository.Repositories
	cache  myredis.CacheService
	graph  *friend.Graph
	broker mq.Broker
	clk    clock.Clock
	window time.Duration
}

// NewPresenceService 构造函数，window <= 0 时使用默认新鲜度窗口
func NewPresenceService(repos *repository.Repositories, cache myredis.CacheService, graph *friend.Graph, broker mq.Broker, clk clock.Clock, window time.Duration) *presenceService {
	if window <= 0 {
		window = constants.PRESENCE_FRESHNESS_WINDOW
	}
	return &presenceService{repos: repos, cache: cache, graph: graph, broker: broker, clk: clk, window: window}
}

// Window 新鲜度窗口
func (s *presenceService) Window() time.Duration {
	return s.window
}

// MarkPresence 写入状态和心跳时间，尽力而为，失败只记日志
// 在线与否发生变化时通知该用户的好友
func (s *presenceService) MarkPresence(ctx context.Context, userId string, status model.PresenceStatus) {
	if !status.Valid() {
		zap.L().Warn("ignore invalid presence status", zap.String("user_id", userId), zap.String("status", string(status)))
		return
	}
	now := s.clk.Now()

	p := &model.Presence{UserId: userId, Status: status, LastSeen: now}
	prev, err := s.repos.Presence.Upsert(ctx, p)
	if err != nil {
		zap.L().Warn("mark presence", zap.String("user_id", userId), zap.String("status", string(status)), zap.Error(err))
		return
	}

	if IsOnline(prev, now, s.window) == IsOnline(p, now, s.window) && prev != nil && prev.Status == status {
		return
	}
	ids, err := s.graph.FriendIds(ctx, userId)
	if err != nil {
		zap.L().Warn("load friends for presence fan-out", zap.String("user_id", userId), zap.Error(err))
		return
	}
	mq.Notify(ctx, s.broker, mq.TablePresence, userId, ids...)
}

// ListOnlineFriends 当前在线的好友
// 没有好友时直接返回空列表，不查询在线表
func (s *presenceService) ListOnlineFriends(ctx context.Context, userId string) ([]respond.OnlineFriendRespond, error) {
	ids, err := s.graph.FriendIds(ctx, userId)
	if err != nil {
		zap.L().Error("load friend ids", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if len(ids) == 0 {
		return []respond.OnlineFriendRespond{}, nil
	}

	now := s.clk.Now()
	rows, err := s.repos.Presence.FindOnlineSince(ctx, ids, now.Add(-s.window))
	if err != nil {
		zap.L().Error("find online friends", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	online := make([]model.Presence, 0, len(rows))
	onlineIds := make([]string, 0, len(rows))
	for i := range rows {
		if IsOnline(&rows[i], now, s.window) {
			online = append(online, rows[i])
			onlineIds = append(onlineIds, rows[i].UserId)
		}
	}
	users, err := friend.LoadUsers(ctx, s.repos, onlineIds)
	if err != nil {
		return nil, err
	}

	rsp := make([]respond.OnlineFriendRespond, 0, len(online))
	for i := range online {
		rsp = append(rsp, respond.OnlineFriendRespond{
			User:     users.Get(online[i].UserId),
			LastSeen: respond.FormatTime(online[i].LastSeen),
		})
	}
	return rsp, nil
}

// OnlineCount 全站在线人数，结果缓存为短时快照并同步到 Prometheus
func (s *presenceService) OnlineCount(ctx context.Context) (int64, error) {
	if s.cache != nil {
		if v, err := s.cache.Get(ctx, constants.ONLINE_COUNT_SNAPSHOT_KEY); err == nil && v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return n, nil
			}
		}
	}

	n, err := s.repos.Presence.CountOnlineSince(ctx, s.clk.Now().Add(-s.window))
	if err != nil {
		zap.L().Error("count online users", zap.Error(err))
		return 0, errorx.ErrServerBusy
	}
	middleware.OnlineUsers.Set(float64(n))

	if s.cache != nil {
		if err := s.cache.Set(ctx, constants.ONLINE_COUNT_SNAPSHOT_KEY, strconv.FormatInt(n, 10), constants.ONLINE_COUNT_SNAPSHOT_TTL); err != nil {
			zap.L().Warn("cache online count", zap.Error(err))
		}
	}
	return n, nil
}

// GetUserPresence 单个用户的状态，心跳过期的 online 显示为 offline
func (s *presenceService) GetUserPresence(ctx context.Context, userId string) (*respond.PresenceRespond, error) {
	p, err := s.repos.Presence.FindByUserId(ctx, userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			rsp := s.toRespond(&model.Presence{UserId: userId, Status: model.PresenceOffline}, s.clk.Now())
			return &rsp, nil
		}
		zap.L().Error("find presence", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := s.toRespond(p, s.clk.Now())
	return &rsp, nil
}

// GetPresenceForUsers 批量查询，没有记录的用户按 offline 返回，顺序与入参一致
func (s *presenceService) GetPresenceForUsers(ctx context.Context, userIds []string) ([]respond.PresenceRespond, error) {
	rows, err := s.repos.Presence.FindByUserIds(ctx, userIds)
	if err != nil {
		zap.L().Error("batch find presence", zap.Int("count", len(userIds)), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	byId := make(map[string]*model.Presence, len(rows))
	for i := range rows {
		byId[rows[i].UserId] = &rows[i]
	}

	now := s.clk.Now()
	rsp := make([]respond.PresenceRespond, 0, len(userIds))
	for _, id := range userIds {
		p, ok := byId[id]
		if !ok {
			p = &model.Presence{UserId: id, Status: model.PresenceOffline}
		}
		rsp = append(rsp, s.toRespond(p, now))
	}
	return rsp, nil
}

func (s *presenceService) toRespond(p *model.Presence, now time.Time) respond.PresenceRespond {
	status := p.Status
	online := IsOnline(p, now, s.window)
	if status == model.PresenceOnline && !online {
		status = model.PresenceOffline
	}
	return respond.PresenceRespond{
		UserId:   p.UserId,
		Status:   string(status),
		LastSeen: respond.FormatTime(p.LastSeen),
		IsOnline: online,
	}
}
