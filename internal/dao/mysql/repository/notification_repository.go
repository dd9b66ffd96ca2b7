package repository

import (
	"context"

	"playmate_server/internal/model"

	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知 Repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return wrapDBErrorf(err, "创建通知 user=%s", n.UserId)
	}
	return nil
}

func (r *notificationRepository) FindByUser(ctx context.Context, userId string, limit int) ([]model.Notification, error) {
	list := []model.Notification{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询通知 user=%s", userId)
	}
	return list, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userId string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userId, false).
		Count(&count).Error
	if err != nil {
		return 0, wrapDBErrorf(err, "统计未读通知 user=%s", userId)
	}
	return count, nil
}

// MarkRead 已读的通知再次标记不报错，受影响行数为 0
func (r *notificationRepository) MarkRead(ctx context.Context, userId, id string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ? AND is_read = ?", id, userId, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, wrapDBErrorf(result.Error, "标记通知已读 id=%s", id)
	}
	return result.RowsAffected, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userId string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userId, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, wrapDBErrorf(result.Error, "全部标记已读 user=%s", userId)
	}
	return result.RowsAffected, nil
}

func (r *notificationRepository) Delete(ctx context.Context, userId, id string) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userId).Delete(&model.Notification{})
	if result.Error != nil {
		return 0, wrapDBErrorf(result.Error, "删除通知 id=%s", id)
	}
	return result.RowsAffected, nil
}

func (r *notificationRepository) DeleteAll(ctx context.Context, userId string) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.Notification{})
	if result.Error != nil {
		return 0, wrapDBErrorf(result.Error, "清空通知 user=%s", userId)
	}
	return result.RowsAffected, nil
}
