package repository

import (
	"context"

	"playmate_server/internal/model"

	"gorm.io/gorm"
)

type statisticsRepository struct {
	db *gorm.DB
}

// NewStatisticsRepository 创建战绩 Repository
func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

// Find 查找用户某项目的战绩
func (r *statisticsRepository) Find(ctx context.Context, userId string, sport model.Sport) (*model.UserStatistics, error) {
	var s model.UserStatistics
	if err := r.db.WithContext(ctx).First(&s, "user_id = ? AND sport = ?", userId, sport).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询战绩 user=%s sport=%s", userId, sport)
	}
	return &s, nil
}

// FindAll 查找用户全部项目战绩
func (r *statisticsRepository) FindAll(ctx context.Context, userId string) ([]model.UserStatistics, error) {
	list := []model.UserStatistics{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).Order("sport ASC").Find(&list).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询战绩 user=%s", userId)
	}
	return list, nil
}

// Save ID 为 0 时插入，否则整条更新
func (r *statisticsRepository) Save(ctx context.Context, s *model.UserStatistics) error {
	if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
		return wrapDBErrorf(err, "保存战绩 user=%s sport=%s", s.UserId, s.Sport)
	}
	return nil
}

// Leaderboard 排行榜
func (r *statisticsRepository) Leaderboard(ctx context.Context, sport model.Sport, limit int) ([]model.UserStatistics, error) {
	list := []model.UserStatistics{}
	err := r.db.WithContext(ctx).
		Where("sport = ? AND games_played > 0", sport).
		Order("average_rating DESC").Order("games_won DESC").Order("id ASC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询排行榜 sport=%s", sport)
	}
	return list, nil
}

// CountAhead 评分更高，或评分相同胜场更多的人数
func (r *statisticsRepository) CountAhead(ctx context.Context, sport model.Sport, rating float64, won int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserStatistics{}).
		Where("sport = ? AND games_played > 0", sport).
		Where("average_rating > ? OR (average_rating = ? AND games_won > ?)", rating, rating, won).
		Count(&count).Error
	if err != nil {
		return 0, wrapDBErrorf(err, "统计排名 sport=%s", sport)
	}
	return count, nil
}

// CreateHistory 追加比赛记录
func (r *statisticsRepository) CreateHistory(ctx context.Context, h *model.GameHistory) error {
	if err := r.db.WithContext(ctx).Create(h).Error; err != nil {
		return wrapDBErrorf(err, "写入比赛记录 user=%s game=%s", h.UserId, h.GameId)
	}
	return nil
}

// FindHistory 比赛记录，最近的在前
func (r *statisticsRepository) FindHistory(ctx context.Context, userId string, sport model.Sport, limit int) ([]model.GameHistory, error) {
	list := []model.GameHistory{}
	query := r.db.WithContext(ctx).Where("user_id = ?", userId)
	if sport != "" {
		query = query.Where("sport = ?", sport)
	}
	if err := query.Order("played_at DESC").Order("id DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询比赛记录 user=%s", userId)
	}
	return list, nil
}

// CreateAchievement 写入成就
func (r *statisticsRepository) CreateAchievement(ctx context.Context, a *model.Achievement) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return wrapDBErrorf(err, "写入成就 user=%s type=%s", a.UserId, a.Type)
	}
	return nil
}

// FindAchievements 查找成就，最新解锁的在前
// 指定 sport 时同时返回不区分项目的成就
func (r *statisticsRepository) FindAchievements(ctx context.Context, userId string, sport model.Sport) ([]model.Achievement, error) {
	list := []model.Achievement{}
	query := r.db.WithContext(ctx).Where("user_id = ?", userId)
	if sport != "" {
		query = query.Where("sport = ? OR sport IS NULL", sport)
	}
	if err := query.Order("unlocked_at DESC").Find(&list).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询成就 user=%s", userId)
	}
	return list, nil
}

// HasAchievement 是否已解锁
func (r *statisticsRepository) HasAchievement(ctx context.Context, userId, achievementType string, sport model.Sport) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Achievement{}).
		Where("user_id = ? AND achievement_type = ?", userId, achievementType)
	if sport != "" {
		query = query.Where("sport = ?", sport)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, wrapDBErrorf(err, "查询成就 user=%s type=%s", userId, achievementType)
	}
	return count > 0, nil
}
