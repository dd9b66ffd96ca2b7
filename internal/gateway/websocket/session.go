package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"playmate_server/internal/dto/request"
	"playmate_server/internal/dto/respond"
	"playmate_server/internal/infrastructure/mq"
	"playmate_server/internal/model"
	"playmate_server/pkg/constants"
	"playmate_server/pkg/errorx"
)

// 上行帧类型
const (
	FramePing                     = "ping"
	FrameBackground               = "background"
	FrameForeground               = "foreground"
	FrameSelectSport              = "select_sport"
	FrameSetTheme                 = "set_theme"
	FrameMarkNotificationRead     = "mark_notification_read"
	FrameMarkAllNotificationsRead = "mark_all_notifications_read"
)

// 下行帧类型
const (
	FrameChanged = "changed"
	FrameBadges  = "badges"
	FrameError   = "error"
	FramePong    = "pong"
)

const (
	writeWait    = 10 * time.Second
	storeTimeout = 5 * time.Second
)

// Session 一个 WebSocket 连接对应一个会话
// 会话持有心跳、AppState、通知投影和事件订阅，连接断开时全部释放
type Session struct {
	Conn   *websocket.Conn
	UserId string

	deps       Deps
	state      *AppState
	projection *NotificationProjection
	sendBack   chan []byte
}

// NewSession 创建会话，需调用 Run 启动
func NewSession(conn *websocket.Conn, userId string, deps Deps) *Session {
	if deps.Heartbeat <= 0 {
		deps.Heartbeat = constants.PRESENCE_HEARTBEAT_PERIOD
	}
	return &Session{
		Conn:       conn,
		UserId:     userId,
		deps:       deps,
		state:      &AppState{},
		projection: NewNotificationProjection(nil),
		sendBack:   make(chan []byte, constants.CHANNEL_SIZE),
	}
}

// State 会话的客户端状态
func (s *Session) State() *AppState {
	return s.state
}

// Run 阻塞直到连接断开或 ctx 取消
// 退出时取消心跳和订阅，并写入 offline
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.markPresence(ctx, model.PresenceOnline)
	s.loadState(ctx)
	s.refreshProjection(ctx)
	s.pushBadges()

	events, unsubscribe := s.deps.Broker.Subscribe(s.UserId)
	defer unsubscribe()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		s.writeLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		s.heartbeat(ctx)
	}()
	go func() {
		defer wg.Done()
		s.eventLoop(ctx, events, cancel)
	}()

	// 读循环在当前 goroutine，连接出错即结束会话
	go func() {
		<-ctx.Done()
		_ = s.Conn.Close()
	}()
	s.readLoop(ctx)

	cancel()
	wg.Wait()

	offCtx, offCancel := context.WithTimeout(context.Background(), storeTimeout)
	defer offCancel()
	s.markPresence(offCtx, model.PresenceOffline)
}

func (s *Session) readLoop(ctx context.Context) {
	for {
		_, raw, err := s.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && ctx.Err() == nil {
				zap.L().Warn("ws read", zap.String("user_id", s.UserId), zap.Error(err))
			}
			return
		}
		var frame request.WsFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			s.pushError(errorx.New(errorx.CodeInvalidParam, "无法解析的消息"))
			continue
		}
		s.handleFrame(ctx, frame)
	}
}

func (s *Session) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.sendBack:
			_ = s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				zap.L().Warn("ws write", zap.String("user_id", s.UserId), zap.Error(err))
				return
			}
		}
	}
}

// heartbeat 按固定间隔刷新在线状态，后台时上报 away
func (s *Session) heartbeat(ctx context.Context) {
	ticker := time.NewTicker(s.deps.Heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.markPresence(ctx, s.state.PresenceStatus())
		}
	}
}

// eventLoop 事件只作为重新拉取的信号转给客户端
// 通知变化时先从存储刷新投影再推送角标，退出登录时结束会话
func (s *Session) eventLoop(ctx context.Context, events <-chan mq.ChangeEvent, stop context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Table == mq.TableSignOut {
				s.closeWith(websocket.ClosePolicyViolation, "signed out")
				stop()
				return
			}
			if ev.Table == mq.TableNotification {
				s.refreshProjection(ctx)
				s.pushBadges()
			}
			s.push(respond.WsFrame{Type: FrameChanged, Table: string(ev.Table)})
		}
	}
}

func (s *Session) handleFrame(ctx context.Context, frame request.WsFrame) {
	switch frame.Type {
	case FramePing:
		s.push(respond.WsFrame{Type: FramePong})
	case FrameBackground:
		s.state.SetBackground(true)
		s.markPresence(ctx, model.PresenceAway)
	case FrameForeground:
		s.state.SetBackground(false)
		s.markPresence(ctx, model.PresenceOnline)
	case FrameSelectSport:
		sport := model.Sport(frame.Sport)
		if !sport.Valid() {
			s.pushError(errorx.Newf(errorx.CodeInvalidParam, "不支持的项目 %q", frame.Sport))
			return
		}
		prev := s.state.SetSport(sport)
		if err := s.setPreference(ctx, constants.PREF_SELECTED_SPORT, string(sport)); err != nil {
			s.state.SetSport(prev)
			s.pushError(err)
		}
	case FrameSetTheme:
		if frame.Theme == "" {
			s.pushError(errorx.New(errorx.CodeInvalidParam, "主题不能为空"))
			return
		}
		prev := s.state.SetTheme(frame.Theme)
		if err := s.setPreference(ctx, constants.PREF_THEME, frame.Theme); err != nil {
			s.state.SetTheme(prev)
			s.pushError(err)
		}
	case FrameMarkNotificationRead:
		if frame.Id == "" {
			s.pushError(errorx.New(errorx.CodeInvalidParam, "缺少通知 ID"))
			return
		}
		undo := s.projection.MarkRead(frame.Id)
		s.pushBadges()
		storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()
		if err := s.deps.Notifications.MarkRead(storeCtx, s.UserId, frame.Id); err != nil {
			undo()
			s.pushBadges()
			s.pushError(err)
		}
	case FrameMarkAllNotificationsRead:
		undo := s.projection.MarkAllRead()
		s.pushBadges()
		storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()
		if _, err := s.deps.Notifications.MarkAllRead(storeCtx, s.UserId); err != nil {
			undo()
			s.pushBadges()
			s.pushError(err)
		}
	default:
		s.pushError(errorx.Newf(errorx.CodeInvalidParam, "未知的消息类型 %q", frame.Type))
	}
}

// closeWith 尽力发送关闭帧，失败由读循环兜底
func (s *Session) closeWith(code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	if err := s.Conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		zap.L().Debug("ws close frame", zap.String("user_id", s.UserId), zap.Error(err))
	}
}

func (s *Session) markPresence(ctx context.Context, status model.PresenceStatus) {
	if s.deps.Presence != nil {
		s.deps.Presence.MarkPresence(ctx, s.UserId, status)
	}
}

// loadState 从偏好初始化 AppState，读取失败时保持默认值
func (s *Session) loadState(ctx context.Context) {
	if s.deps.Preferences == nil {
		return
	}
	if p, err := s.deps.Preferences.Get(ctx, s.UserId, constants.PREF_SELECTED_SPORT); err == nil {
		s.state.SetSport(model.Sport(p.Value))
	}
	if p, err := s.deps.Preferences.Get(ctx, s.UserId, constants.PREF_THEME); err == nil {
		s.state.SetTheme(p.Value)
	}
}

func (s *Session) setPreference(ctx context.Context, key, value string) error {
	if s.deps.Preferences == nil {
		return nil
	}
	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return s.deps.Preferences.Set(storeCtx, s.UserId, key, value)
}

// refreshProjection 拉取失败时保留旧投影
func (s *Session) refreshProjection(ctx context.Context) {
	if s.deps.Notifications == nil {
		return
	}
	list, err := s.deps.Notifications.List(ctx, s.UserId)
	if err != nil {
		zap.L().Warn("load notifications for session", zap.String("user_id", s.UserId), zap.Error(err))
		return
	}
	unread := make([]string, 0, len(list))
	for _, n := range list {
		if !n.Read {
			unread = append(unread, n.Id)
		}
	}
	s.projection.Reset(unread)
}

func (s *Session) pushBadges() {
	n := s.projection.UnreadCount()
	s.push(respond.WsFrame{Type: FrameBadges, Notifications: &n})
}

func (s *Session) pushError(err error) {
	msg := err.Error()
	code := errorx.GetCode(err)
	if code == errorx.CodeServerBusy {
		msg = errorx.ErrServerBusy.Msg
	}
	s.push(respond.WsFrame{Type: FrameError, Code: code, Msg: msg})
}

// push 发送队列满时丢弃，客户端下次拉取会拿到最新数据
func (s *Session) push(frame respond.WsFrame) {
	raw, err := json.Marshal(frame)
	if err != nil {
		zap.L().Error("marshal ws frame", zap.Error(err))
		return
	}
	select {
	case s.sendBack <- raw:
	default:
		zap.L().Warn("ws send queue full, drop frame", zap.String("user_id", s.UserId), zap.String("type", frame.Type))
	}
}
