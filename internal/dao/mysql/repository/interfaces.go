// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"context"
	"errors"
	"time"

	"playmate_server/internal/model"
	"playmate_server/pkg/errorx"

	"gorm.io/gorm"
)

// ==================== 错误包装辅助函数 ====================

// wrapDBError 包装数据库错误
// 根据错误类型返回不同的错误码：
//   - ErrRecordNotFound -> CodeNotFound
//   - ErrDuplicatedKey -> CodeAlreadyExists
//   - 其他错误 -> CodeDBError
func wrapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errorx.Wrap(err, dbErrorCode(err), msg)
}

// wrapDBErrorf 功能同 wrapDBError，支持格式化消息
func wrapDBErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errorx.Wrapf(err, dbErrorCode(err), format, args...)
}

func dbErrorCode(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errorx.CodeNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errorx.CodeAlreadyExists
	default:
		return errorx.CodeDBError
	}
}

// ==================== Repository 接口定义 ====================

// UserRepository 用户数据访问接口
type UserRepository interface {
	// FindByUuid 根据 UUID 查找用户
	FindByUuid(ctx context.Context, uuid string) (*model.UserInfo, error)
	// FindByEmail 根据邮箱查找用户
	FindByEmail(ctx context.Context, email string) (*model.UserInfo, error)
	// FindByUuids 批量根据 UUID 查找用户
	FindByUuids(ctx context.Context, uuids []string) ([]model.UserInfo, error)
	// ExistsByUsernameOrEmail 用户名或邮箱是否已被占用
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	// Create 创建新用户
	Create(ctx context.Context, user *model.UserInfo) error
	// UpdateProfile 按列名更新资料
	UpdateProfile(ctx context.Context, uuid string, updates map[string]any) error
	// Search 用户名或姓名包含 keyword 的用户，排除 excludeUuid
	Search(ctx context.Context, keyword, excludeUuid string, limit int) ([]model.UserInfo, error)
}

// FriendshipRepository 好友关系数据访问接口
// 一对用户无论方向至多一条记录
type FriendshipRepository interface {
	// FindByID 根据关系 ID 查找
	FindByID(ctx context.Context, id string) (*model.Friendship, error)
	// FindByPair 按无序用户对查找
	FindByPair(ctx context.Context, a, b string) (*model.Friendship, error)
	// Create 创建关系，同一用户对重复创建返回 CodeAlreadyExists
	Create(ctx context.Context, f *model.Friendship) error
	// CompareAndSetStatus 仅当当前状态为 from 时改为 to，返回受影响行数
	CompareAndSetStatus(ctx context.Context, id string, from, to model.FriendshipStatus, now time.Time) (int64, error)
	// Save 整条更新
	Save(ctx context.Context, f *model.Friendship) error
	// Delete 物理删除，返回受影响行数
	Delete(ctx context.Context, id string) (int64, error)
	// FindAccepted 查找用户的全部已接受关系
	FindAccepted(ctx context.Context, userId string) ([]model.Friendship, error)
	// FindAcceptedCounterpartIds 查找用户全部好友的 ID
	FindAcceptedCounterpartIds(ctx context.Context, userId string) ([]string, error)
	// FindPendingReceived 用户收到的待处理请求
	FindPendingReceived(ctx context.Context, userId string) ([]model.Friendship, error)
	// FindPendingSent 用户发出的待处理请求
	FindPendingSent(ctx context.Context, userId string) ([]model.Friendship, error)
	// CountPendingReceived 用户收到的待处理请求数
	CountPendingReceived(ctx context.Context, userId string) (int64, error)
}

// PresenceRepository 在线状态数据访问接口
type PresenceRepository interface {
	// Upsert 按 user_id 写入或覆盖，返回之前的记录
	Upsert(ctx context.Context, p *model.Presence) (*model.Presence, error)
	// FindByUserId 查找单个用户状态
	FindByUserId(ctx context.Context, userId string) (*model.Presence, error)
	// FindByUserIds 批量查找
	FindByUserIds(ctx context.Context, userIds []string) ([]model.Presence, error)
	// FindOnlineSince 在 userIds 中查找 status=online 且 last_seen 晚于 since 的记录
	FindOnlineSince(ctx context.Context, userIds []string, since time.Time) ([]model.Presence, error)
	// CountOnlineSince 全站在线人数
	CountOnlineSince(ctx context.Context, since time.Time) (int64, error)
}

// ConversationUnread 按会话对方聚合的未读数
type ConversationUnread struct {
	PartnerId string
	Count     int64
}

// MessageRepository 私信数据访问接口
type MessageRepository interface {
	// Create 写入消息
	Create(ctx context.Context, m *model.Message) error
	// FindBetween 两个用户之间的全部消息，按发送时间升序
	FindBetween(ctx context.Context, a, b string) ([]model.Message, error)
	// FindInvolving 用户参与的全部消息，按发送时间降序
	FindInvolving(ctx context.Context, userId string) ([]model.Message, error)
	// CountUnreadByPartner 按发送者统计 userId 的未读消息
	CountUnreadByPartner(ctx context.Context, userId string) ([]ConversationUnread, error)
	// CountUnread userId 的未读总数
	CountUnread(ctx context.Context, userId string) (int64, error)
	// MarkRead 将 sender 发给 receiver 的未读消息全部置为已读
	MarkRead(ctx context.Context, receiverId, senderId string) (int64, error)
}

// NotificationRepository 通知数据访问接口
// 所有按 ID 的写操作都同时限定 user_id，只能操作自己的通知
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	// FindByUser 按创建时间降序，最多 limit 条
	FindByUser(ctx context.Context, userId string, limit int) ([]model.Notification, error)
	CountUnread(ctx context.Context, userId string) (int64, error)
	MarkRead(ctx context.Context, userId, id string) (int64, error)
	MarkAllRead(ctx context.Context, userId string) (int64, error)
	Delete(ctx context.Context, userId, id string) (int64, error)
	DeleteAll(ctx context.Context, userId string) (int64, error)
}

// StatisticsRepository 战绩、比赛记录和成就数据访问接口
type StatisticsRepository interface {
	// Find 查找用户某项目的战绩
	Find(ctx context.Context, userId string, sport model.Sport) (*model.UserStatistics, error)
	// FindAll 查找用户全部项目的战绩
	FindAll(ctx context.Context, userId string) ([]model.UserStatistics, error)
	// Save 新建或整条更新
	Save(ctx context.Context, s *model.UserStatistics) error
	// Leaderboard 至少打过一场的用户，按评分、胜场降序
	Leaderboard(ctx context.Context, sport model.Sport, limit int) ([]model.UserStatistics, error)
	// CountAhead 排名严格领先于 (rating, won) 的用户数
	CountAhead(ctx context.Context, sport model.Sport, rating float64, won int) (int64, error)
	// CreateHistory 追加比赛记录
	CreateHistory(ctx context.Context, h *model.GameHistory) error
	// FindHistory 按比赛时间降序，sport 为空时不过滤
	FindHistory(ctx context.Context, userId string, sport model.Sport, limit int) ([]model.GameHistory, error)
	// CreateAchievement 写入成就
	CreateAchievement(ctx context.Context, a *model.Achievement) error
	// FindAchievements 查找用户成就，sport 为空时返回全部，否则返回该项目和不区分项目的成就
	FindAchievements(ctx context.Context, userId string, sport model.Sport) ([]model.Achievement, error)
	// HasAchievement 用户是否已获得某类成就
	HasAchievement(ctx context.Context, userId, achievementType string, sport model.Sport) (bool, error)
}

// PreferenceRepository 用户偏好数据访问接口
type PreferenceRepository interface {
	Get(ctx context.Context, userId, key string) (*model.UserPreference, error)
	FindAll(ctx context.Context, userId string) ([]model.UserPreference, error)
	// Upsert 按 (user_id, key) 写入或覆盖
	Upsert(ctx context.Context, p *model.UserPreference) error
	Delete(ctx context.Context, userId, key string) (int64, error)
}

// ==================== Repository 聚合 ====================

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db           *gorm.DB
	User         UserRepository
	Friendship   FriendshipRepository
	Presence     PresenceRepository
	Message      MessageRepository
	Notification NotificationRepository
	Statistics   StatisticsRepository
	Preference   PreferenceRepository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:           db,
		User:         NewUserRepository(db),
		Friendship:   NewFriendshipRepository(db),
		Presence:     NewPresenceRepository(db),
		Message:      NewMessageRepository(db),
		Notification: NewNotificationRepository(db),
		Statistics:   NewStatisticsRepository(db),
		Preference:   NewPreferenceRepository(db),
	}
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
func (r *Repositories) Transaction(ctx context.Context, fn func(txRepos *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// Ping 检查数据库连通性
func (r *Repositories) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return wrapDBError(err, "获取数据库连接")
	}
	return wrapDBError(sqlDB.PingContext(ctx), "数据库连通性检查")
}
