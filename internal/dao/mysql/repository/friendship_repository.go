package repository

import (
	"context"
	"time"

	"playmate_server/internal/model"

	"gorm.io/gorm"
)

type friendshipRepository struct {
	db *gorm.DB
}

// NewFriendshipRepository 创建好友关系 Repository
func NewFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

// FindByID 按 ID 查找
func (r *friendshipRepository) FindByID(ctx context.Context, id string) (*model.Friendship, error) {
	var f model.Friendship
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询好友关系 id=%s", id)
	}
	return &f, nil
}

// FindByPair 按无序用户对查找
func (r *friendshipRepository) FindByPair(ctx context.Context, a, b string) (*model.Friendship, error) {
	var f model.Friendship
	if err := r.db.WithContext(ctx).First(&f, "pair_key = ?", model.PairKey(a, b)).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询好友关系 %s <-> %s", a, b)
	}
	return &f, nil
}

// Create 创建关系，PairKey 在此统一填充
func (r *friendshipRepository) Create(ctx context.Context, f *model.Friendship) error {
	f.PairKey = model.PairKey(f.RequesterId, f.AddresseeId)
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		return wrapDBErrorf(err, "创建好友关系 %s -> %s", f.RequesterId, f.AddresseeId)
	}
	return nil
}

// CompareAndSetStatus 条件更新状态
// 并发的接受/拒绝只会有一个命中 status = from
func (r *friendshipRepository) CompareAndSetStatus(ctx context.Context, id string, from, to model.FriendshipStatus, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Friendship{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": now})
	if result.Error != nil {
		return 0, wrapDBErrorf(result.Error, "更新好友关系状态 id=%s", id)
	}
	return result.RowsAffected, nil
}

// Save 整条更新
func (r *friendshipRepository) Save(ctx context.Context, f *model.Friendship) error {
	f.PairKey = model.PairKey(f.RequesterId, f.AddresseeId)
	if err := r.db.WithContext(ctx).Save(f).Error; err != nil {
		return wrapDBErrorf(err, "保存好友关系 id=%s", f.ID)
	}
	return nil
}

// Delete 物理删除
func (r *friendshipRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Friendship{})
	if result.Error != nil {
		return 0, wrapDBErrorf(result.Error, "删除好友关系 id=%s", id)
	}
	return result.RowsAffected, nil
}

// FindAccepted 查找已接受的关系，按更新时间降序
func (r *friendshipRepository) FindAccepted(ctx context.Context, userId string) ([]model.Friendship, error) {
	list := []model.Friendship{}
	err := r.db.WithContext(ctx).
		Where("(requester_id = ? OR addressee_id = ?) AND status = ?", userId, userId, model.FriendshipAccepted).
		Order("updated_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询好友列表 user=%s", userId)
	}
	return list, nil
}

// FindAcceptedCounterpartIds 查找好友 ID 列表
func (r *friendshipRepository) FindAcceptedCounterpartIds(ctx context.Context, userId string) ([]string, error) {
	list, err := r.FindAccepted(ctx, userId)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list))
	for i := range list {
		ids = append(ids, list[i].Counterpart(userId))
	}
	return ids, nil
}

// FindPendingReceived 收到的待处理请求，最新的在前
func (r *friendshipRepository) FindPendingReceived(ctx context.Context, userId string) ([]model.Friendship, error) {
	list := []model.Friendship{}
	err := r.db.WithContext(ctx).
		Where("addressee_id = ? AND status = ?", userId, model.FriendshipPending).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询收到的好友请求 user=%s", userId)
	}
	return list, nil
}

// FindPendingSent 发出的待处理请求，最新的在前
func (r *friendshipRepository) FindPendingSent(ctx context.Context, userId string) ([]model.Friendship, error) {
	list := []model.Friendship{}
	err := r.db.WithContext(ctx).
		Where("requester_id = ? AND status = ?", userId, model.FriendshipPending).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询发出的好友请求 user=%s", userId)
	}
	return list, nil
}

// CountPendingReceived 收到的待处理请求数
func (r *friendshipRepository) CountPendingReceived(ctx context.Context, userId string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Friendship{}).
		Where("addressee_id = ? AND status = ?", userId, model.FriendshipPending).
		Count(&count).Error
	if err != nil {
		return 0, wrapDBErrorf(err, "统计好友请求 user=%s", userId)
	}
	return count, nil
}
