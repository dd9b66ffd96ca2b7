// Package message 一对一私信和未读聚合
// 会话不落库，每次查询从消息表实时推导
package message

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"playmate_server/internal/dao/mysql/repository"
	"playmate_server/internal/dto/respond"
	"playmate_server/internal/infrastructure/mq"
	"playmate_server/internal/model"
	"playmate_server/internal/service/friend"
	"playmate_server/pkg/errorx"
	"playmate_server/pkg/util/clock"
	"playmate_server/pkg/util/snowflake"
)

// Notifier 创建站内通知
type Notifier interface {
	Create(ctx context.Context, userId string, payload model.NotificationPayload, title, content string) (*model.Notification, error)
}

// RequestLister 查询收到的待处理好友请求，收件箱的"请求"标签使用
type RequestLister interface {
	ListPendingRequests(ctx context.Context, userId string) ([]respond.FriendRequestRespond, error)
}

// messageService 私信业务逻辑实现
type messageService struct {
	repos    *repository.Repositories
	graph    *friend.Graph
	requests RequestLister
	notifier Notifier
	broker   mq.Broker
	clk      clock.Clock
}

// NewMessageService 构造函数
func NewMessageService(repos *repository.Repositories, graph *friend.Graph, requests RequestLister, notifier Notifier, broker mq.Broker, clk clock.Clock) *messageService {
	return &messageService{repos: repos, graph: graph, requests: requests, notifier: notifier, broker: broker, clk: clk}
}

// SendMessage 发送私信，被任一方拉黑时不能发送
func (s *messageService) SendMessage(ctx context.Context, from, to, content string) (*respond.MessageRespond, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "消息内容不能为空")
	}
	if from == to {
		return nil, errorx.New(errorx.CodeInvalidParam, "不能给自己发消息")
	}
	if _, err := s.repos.User.FindByUuid(ctx, to); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.ErrUserNotExist
		}
		zap.L().Error("find receiver", zap.String("user_id", to), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	f, err := s.repos.Friendship.FindByPair(ctx, from, to)
	if err != nil && !errorx.IsNotFound(err) {
		zap.L().Error("find friendship by pair", zap.String("from", from), zap.String("to", to), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if err == nil && f.Status == model.FriendshipBlocked {
		return nil, errorx.New(errorx.CodeForbidden, "无法给对方发送消息")
	}

	m := &model.Message{
		ID:         snowflake.GenerateID(),
		SenderId:   from,
		ReceiverId: to,
		Content:    content,
		CreatedAt:  s.clk.Now(),
	}
	if err := s.repos.Message.Create(ctx, m); err != nil {
		zap.L().Error("create message", zap.String("from", from), zap.String("to", to), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	if s.notifier != nil {
		if _, err := s.notifier.Create(ctx, to, model.MessagePayload{SenderID: from, MessageID: m.ID}, "新消息", preview(content)); err != nil {
			zap.L().Warn("create message notification", zap.String("user_id", to), zap.Error(err))
		}
	}
	mq.Notify(ctx, s.broker, mq.TableMessage, from, from, to)

	rsp := respond.NewMessage(m)
	return &rsp, nil
}

// GetConversation 与 partner 的全部消息，按发送顺序
func (s *messageService) GetConversation(ctx context.Context, self, partner string) ([]respond.MessageRespond, error) {
	list, err := s.repos.Message.FindBetween(ctx, self, partner)
	if err != nil {
		zap.L().Error("find conversation", zap.String("self", self), zap.String("partner", partner), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.MessageRespond, 0, len(list))
	for i := range list {
		rsp = append(rsp, respond.NewMessage(&list[i]))
	}
	return rsp, nil
}

// ListConversations 每个聊过的对象一条，按最后一条消息倒序
func (s *messageService) ListConversations(ctx context.Context, self string) ([]respond.ConversationRespond, error) {
	msgs, err := s.repos.Message.FindInvolving(ctx, self)
	if err != nil {
		zap.L().Error("find messages", zap.String("user_id", self), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if len(msgs) == 0 {
		return []respond.ConversationRespond{}, nil
	}

	unread, err := s.repos.Message.CountUnreadByPartner(ctx, self)
	if err != nil {
		zap.L().Error("count unread by partner", zap.String("user_id", self), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	unreadBy := make(map[string]int64, len(unread))
	for _, u := range unread {
		unreadBy[u.PartnerId] = u.Count
	}

	friendIds, err := s.graph.FriendIds(ctx, self)
	if err != nil {
		zap.L().Error("load friend ids", zap.String("user_id", self), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	friends := make(map[string]struct{}, len(friendIds))
	for _, id := range friendIds {
		friends[id] = struct{}{}
	}

	// 消息已按时间倒序，每个对象第一次出现的就是最后一条
	var latest []*model.Message
	var partners []string
	seen := make(map[string]struct{})
	for i := range msgs {
		p := msgs[i].Partner(self)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		latest = append(latest, &msgs[i])
		partners = append(partners, p)
	}

	users, err := friend.LoadUsers(ctx, s.repos, partners)
	if err != nil {
		return nil, err
	}

	rsp := make([]respond.ConversationRespond, 0, len(latest))
	for i, m := range latest {
		p := partners[i]
		_, isFriend := friends[p]
		rsp = append(rsp, respond.ConversationRespond{
			Partner:     users.Get(p),
			LastMessage: respond.NewMessage(m),
			UnreadCount: unreadBy[p],
			IsFriend:    isFriend,
		})
	}
	return rsp, nil
}

// MarkConversationRead 将 partner 发给自己的未读消息一次性置为已读
func (s *messageService) MarkConversationRead(ctx context.Context, self, partner string) (int64, error) {
	n, err := s.repos.Message.MarkRead(ctx, self, partner)
	if err != nil {
		zap.L().Error("mark conversation read", zap.String("self", self), zap.String("partner", partner), zap.Error(err))
		return 0, errorx.ErrServerBusy
	}
	if n > 0 {
		mq.Notify(ctx, s.broker, mq.TableMessage, self, self, partner)
	}
	return n, nil
}

// UnreadCount 私信未读总数，等于各会话未读数之和
func (s *messageService) UnreadCount(ctx context.Context, self string) (int64, error) {
	n, err := s.repos.Message.CountUnread(ctx, self)
	if err != nil {
		zap.L().Error("count unread messages", zap.String("user_id", self), zap.Error(err))
		return 0, errorx.ErrServerBusy
	}
	return n, nil
}

// Inbox 聊天页数据：好友会话、非好友会话和待处理好友请求
func (s *messageService) Inbox(ctx context.Context, self string) (*respond.InboxRespond, error) {
	conversations, err := s.ListConversations(ctx, self)
	if err != nil {
		return nil, err
	}
	pending, err := s.requests.ListPendingRequests(ctx, self)
	if err != nil {
		return nil, err
	}

	rsp := &respond.InboxRespond{
		Friends:         []respond.ConversationRespond{},
		Requests:        []respond.ConversationRespond{},
		PendingRequests: pending,
		RequestsUnread:  int64(len(pending)),
	}
	for _, c := range conversations {
		if c.IsFriend {
			rsp.Friends = append(rsp.Friends, c)
			rsp.FriendsUnread += c.UnreadCount
		} else {
			rsp.Requests = append(rsp.Requests, c)
			rsp.RequestsUnread += c.UnreadCount
		}
	}
	return rsp, nil
}

// preview 通知正文只截取消息开头
func preview(content string) string {
	const limit = 60
	r := []rune(content)
	if len(r) <= limit {
		return content
	}
	return string(r[:limit]) + "..."
}
