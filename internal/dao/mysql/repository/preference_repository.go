package repository

import (
	"context"

	"playmate_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type preferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository 创建偏好 Repository
func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) Get(ctx context.Context, userId, key string) (*model.UserPreference, error) {
	var p model.UserPreference
	if err := r.db.WithContext(ctx).First(&p, "user_id = ? AND pref_key = ?", userId, key).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询偏好 user=%s key=%s", userId, key)
	}
	return &p, nil
}

func (r *preferenceRepository) FindAll(ctx context.Context, userId string) ([]model.UserPreference, error) {
	list := []model.UserPreference{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).Order("pref_key ASC").Find(&list).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询偏好 user=%s", userId)
	}
	return list, nil
}

func (r *preferenceRepository) Upsert(ctx context.Context, p *model.UserPreference) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "pref_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"pref_value", "updated_at"}),
	}).Create(p).Error
	if err != nil {
		return wrapDBErrorf(err, "保存偏好 user=%s key=%s", p.UserId, p.Key)
	}
	return nil
}

func (r *preferenceRepository) Delete(ctx context.Context, userId, key string) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ? AND pref_key = ?", userId, key).Delete(&model.UserPreference{})
	if result.Error != nil {
		return 0, wrapDBErrorf(result.Error, "删除偏好 user=%s key=%s", userId, key)
	}
	return result.RowsAffected, nil
}
