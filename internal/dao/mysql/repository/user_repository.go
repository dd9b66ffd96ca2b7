package repository

import (
	"context"
	"strings"

	"playmate_server/internal/model"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户 Repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByUuid 按 UUID 查找用户
func (r *userRepository) FindByUuid(ctx context.Context, uuid string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.WithContext(ctx).First(&user, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 uuid=%s", uuid)
	}
	return &user, nil
}

// FindByEmail 按邮箱查找用户
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 email=%s", email)
	}
	return &user, nil
}

// FindByUuids 按 UUID 列表查找用户
func (r *userRepository) FindByUuids(ctx context.Context, uuids []string) ([]model.UserInfo, error) {
	users := []model.UserInfo{}
	if len(uuids) == 0 {
		return users, nil
	}
	if err := r.db.WithContext(ctx).Where("uuid IN ?", uuids).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "批量查询用户")
	}
	return users, nil
}

// ExistsByUsernameOrEmail 用户名或邮箱是否已存在
func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserInfo{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, wrapDBError(err, "检查用户名或邮箱")
	}
	return count > 0, nil
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *model.UserInfo) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return wrapDBError(err, "创建用户")
	}
	return nil
}

// UpdateProfile 只更新 updates 中的列
func (r *userRepository) UpdateProfile(ctx context.Context, uuid string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&model.UserInfo{}).
		Where("uuid = ?", uuid).
		Updates(updates).Error
	if err != nil {
		return wrapDBErrorf(err, "更新用户资料 uuid=%s", uuid)
	}
	return nil
}

// likeEscaper 转义 LIKE 通配符，配合 ESCAPE '!' 使用
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Search 不区分大小写的包含匹配，按用户名排序
func (r *userRepository) Search(ctx context.Context, keyword, excludeUuid string, limit int) ([]model.UserInfo, error) {
	users := []model.UserInfo{}
	pattern := "%" + strings.ToLower(likeEscaper.Replace(keyword)) + "%"
	err := r.db.WithContext(ctx).
		Where("uuid <> ?", excludeUuid).
		Where("(LOWER(username) LIKE ? ESCAPE '!' OR LOWER(first_name) LIKE ? ESCAPE '!' OR LOWER(last_name) LIKE ? ESCAPE '!')",
			pattern, pattern, pattern).
		Order("username").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, wrapDBError(err, "搜索用户")
	}
	return users, nil
}
