package repository

import (
	"context"
	"errors"
	"time"

	"playmate_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type presenceRepository struct {
	db *gorm.DB
}

// NewPresenceRepository 创建在线状态 Repository
func NewPresenceRepository(db *gorm.DB) PresenceRepository {
	return &presenceRepository{db: db}
}

// Upsert 写入或覆盖状态和最近心跳，返回写入前的记录（首次写入为 nil）
// MySQL 不支持 RETURNING，读旧值和写入放在同一事务里
func (r *presenceRepository) Upsert(ctx context.Context, p *model.Presence) (*model.Presence, error) {
	var prev *model.Presence
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old model.Presence
		err := tx.First(&old, "user_id = ?", p.UserId).Error
		switch {
		case err == nil:
			prev = &old
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "last_seen"}),
		}).Create(p).Error
	})
	if err != nil {
		return nil, wrapDBErrorf(err, "更新在线状态 user=%s", p.UserId)
	}
	return prev, nil
}

// FindByUserId 查找单个用户
func (r *presenceRepository) FindByUserId(ctx context.Context, userId string) (*model.Presence, error) {
	var p model.Presence
	if err := r.db.WithContext(ctx).First(&p, "user_id = ?", userId).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询在线状态 user=%s", userId)
	}
	return &p, nil
}

// FindByUserIds 批量查找
func (r *presenceRepository) FindByUserIds(ctx context.Context, userIds []string) ([]model.Presence, error) {
	list := []model.Presence{}
	if len(userIds) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIds).Find(&list).Error; err != nil {
		return nil, wrapDBError(err, "批量查询在线状态")
	}
	return list, nil
}

// FindOnlineSince 查找仍在新鲜度窗口内的在线用户
func (r *presenceRepository) FindOnlineSince(ctx context.Context, userIds []string, since time.Time) ([]model.Presence, error) {
	list := []model.Presence{}
	if len(userIds) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id IN ? AND status = ? AND last_seen > ?", userIds, model.PresenceOnline, since).
		Order("last_seen DESC").
		Find(&list).Error
	if err != nil {
		return nil, wrapDBError(err, "查询在线好友")
	}
	return list, nil
}

// CountOnlineSince 统计全站在线人数
func (r *presenceRepository) CountOnlineSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Presence{}).
		Where("status = ? AND last_seen > ?", model.PresenceOnline, since).
		Count(&count).Error
	if err != nil {
		return 0, wrapDBError(err, "统计在线人数")
	}
	return count, nil
}
