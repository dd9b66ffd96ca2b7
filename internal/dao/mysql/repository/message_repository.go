package repository

import (
	"context"

	"playmate_server/internal/model"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create 写入消息
func (r *messageRepository) Create(ctx context.Context, m *model.Message) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return wrapDBErrorf(err, "写入消息 %s -> %s", m.SenderId, m.ReceiverId)
	}
	return nil
}

// FindBetween 按两个用户ID查找消息（双向），时间升序
// 同一时间戳按雪花 ID 排序
func (r *messageRepository) FindBetween(ctx context.Context, a, b string) ([]model.Message, error) {
	messages := []model.Message{}
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at ASC").Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询消息 user1=%s user2=%s", a, b)
	}
	return messages, nil
}

// FindInvolving 用户收发的全部消息，最新的在前
func (r *messageRepository) FindInvolving(ctx context.Context, userId string) ([]model.Message, error) {
	messages := []model.Message{}
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userId, userId).
		Order("created_at DESC").Order("id DESC").
		Find(&messages).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询用户消息 user=%s", userId)
	}
	return messages, nil
}

// CountUnreadByPartner 按发送者分组统计未读
func (r *messageRepository) CountUnreadByPartner(ctx context.Context, userId string) ([]ConversationUnread, error) {
	rows := []ConversationUnread{}
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Select("sender_id AS partner_id, COUNT(*) AS count").
		Where("receiver_id = ? AND is_read = ?", userId, false).
		Group("sender_id").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "统计会话未读 user=%s", userId)
	}
	return rows, nil
}

// CountUnread 未读总数
func (r *messageRepository) CountUnread(ctx context.Context, userId string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("receiver_id = ? AND is_read = ?", userId, false).
		Count(&count).Error
	if err != nil {
		return 0, wrapDBErrorf(err, "统计未读消息 user=%s", userId)
	}
	return count, nil
}

// MarkRead 只更新 sender -> receiver 方向，receiver 自己发出的消息不受影响
func (r *messageRepository) MarkRead(ctx context.Context, receiverId, senderId string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderId, receiverId, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, wrapDBErrorf(result.Error, "标记已读 %s -> %s", senderId, receiverId)
	}
	return result.RowsAffected, nil
}
