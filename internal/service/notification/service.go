// Package notification 站内通知
// 通知未读数与私信未读数是两个独立计数，互不合并
package notification

import (
	"context"

	"go.uber.org/zap"

	"playmate_server/internal/dao/mysql/repository"
	"playmate_server/internal/dto/respond"
	"playmate_server/internal/infrastructure/mq"
	"playmate_server/internal/model"
	"playmate_server/pkg/constants"
	"playmate_server/pkg/errorx"
	"playmate_server/pkg/util/clock"
	"playmate_server/pkg/util/random"
)

// notificationService 通知业务逻辑实现
type notificationService struct {
	repos  *repository.Repositories
	broker mq.Broker
	clk    clock.Clock
}

// NewNotificationService 构造函数
func NewNotificationService(repos *repository.Repositories, broker mq.Broker, clk clock.Clock) *notificationService {
	return &notificationService{repos: repos, broker: broker, clk: clk}
}

// Create 写入一条通知，类型由 payload 决定
func (s *notificationService) Create(ctx context.Context, userId string, payload model.NotificationPayload, title, content string) (*model.Notification, error) {
	typ, raw, err := model.EncodePayload(payload)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeInvalidParam, "通知数据不合法")
	}
	n := &model.Notification{
		ID:        random.NewID('N'),
		UserId:    userId,
		Type:      typ,
		Title:     title,
		Content:   content,
		Data:      raw,
		CreatedAt: s.clk.Now(),
	}
	if err := s.repos.Notification.Create(ctx, n); err != nil {
		zap.L().Error("create notification", zap.String("user_id", userId), zap.String("type", string(typ)), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	mq.Notify(ctx, s.broker, mq.TableNotification, "", userId)
	return n, nil
}

// List 最近的通知，最新的在前
func (s *notificationService) List(ctx context.Context, userId string) ([]respond.NotificationRespond, error) {
	list, err := s.repos.Notification.FindByUser(ctx, userId, constants.LIST_LIMIT)
	if err != nil {
		zap.L().Error("find notifications", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.NotificationRespond, 0, len(list))
	for i := range list {
		rsp = append(rsp, toRespond(&list[i]))
	}
	return rsp, nil
}

// UnreadCount 未读通知数
func (s *notificationService) UnreadCount(ctx context.Context, userId string) (int64, error) {
	n, err := s.repos.Notification.CountUnread(ctx, userId)
	if err != nil {
		zap.L().Error("count unread notifications", zap.String("user_id", userId), zap.Error(err))
		return 0, errorx.ErrServerBusy
	}
	return n, nil
}

// MarkRead 标记单条已读，已读或不属于自己的通知不会被修改
func (s *notificationService) MarkRead(ctx context.Context, userId, id string) error {
	n, err := s.repos.Notification.MarkRead(ctx, userId, id)
	if err != nil {
		zap.L().Error("mark notification read", zap.String("user_id", userId), zap.String("id", id), zap.Error(err))
		return errorx.ErrServerBusy
	}
	if n > 0 {
		mq.Notify(ctx, s.broker, mq.TableNotification, userId, userId)
	}
	return nil
}

// MarkAllRead 全部标记已读
func (s *notificationService) MarkAllRead(ctx context.Context, userId string) (int64, error) {
	n, err := s.repos.Notification.MarkAllRead(ctx, userId)
	if err != nil {
		zap.L().Error("mark all notifications read", zap.String("user_id", userId), zap.Error(err))
		return 0, errorx.ErrServerBusy
	}
	if n > 0 {
		mq.Notify(ctx, s.broker, mq.TableNotification, userId, userId)
	}
	return n, nil
}

// Delete 删除自己的一条通知
func (s *notificationService) Delete(ctx context.Context, userId, id string) error {
	n, err := s.repos.Notification.Delete(ctx, userId, id)
	if err != nil {
		zap.L().Error("delete notification", zap.String("user_id", userId), zap.String("id", id), zap.Error(err))
		return errorx.ErrServerBusy
	}
	if n == 0 {
		return errorx.New(errorx.CodeNotFound, "通知不存在")
	}
	mq.Notify(ctx, s.broker, mq.TableNotification, userId, userId)
	return nil
}

// DeleteAll 清空自己的通知
func (s *notificationService) DeleteAll(ctx context.Context, userId string) (int64, error) {
	n, err := s.repos.Notification.DeleteAll(ctx, userId)
	if err != nil {
		zap.L().Error("delete all notifications", zap.String("user_id", userId), zap.Error(err))
		return 0, errorx.ErrServerBusy
	}
	if n > 0 {
		mq.Notify(ctx, s.broker, mq.TableNotification, userId, userId)
	}
	return n, nil
}

func toRespond(n *model.Notification) respond.NotificationRespond {
	rsp := respond.NotificationRespond{
		Id:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Content:   n.Content,
		Read:      n.Read,
		CreatedAt: respond.FormatTime(n.CreatedAt),
	}
	// 附加数据解析失败时只返回通知本身
	if payload, err := n.Payload(); err == nil {
		rsp.Data = payload
	} else {
		zap.L().Warn("decode notification payload", zap.String("id", n.ID), zap.Error(err))
	}
	return rsp
}
