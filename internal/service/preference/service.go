// Package preference 用户偏好键值存储，按用户隔离，持久化到数据库
package preference

import (
	"context"
	"regexp"

	"go.uber.org/zap"

	"playmate_server/internal/dao/mysql/repository"
	"playmate_server/internal/dto/respond"
	"playmate_server/internal/infrastructure/mq"
	"playmate_server/internal/model"
	"playmate_server/pkg/errorx"
	"playmate_server/pkg/util/clock"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9_.]{1,64}$`)

// ValidKey 偏好 key 只允许小写字母、数字、下划线和点
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// preferenceService 偏好业务逻辑实现
type preferenceService struct {
	repos  *repository.Repositories
	broker mq.Broker
	clk    clock.Clock
}

// NewPreferenceService 构造函数
func NewPreferenceService(repos *repository.Repositories, broker mq.Broker, clk clock.Clock) *preferenceService {
	return &preferenceService{repos: repos, broker: broker, clk: clk}
}

// Get 读取一项偏好，不存在返回 NotFound
func (s *preferenceService) Get(ctx context.Context, userId, key string) (*respond.PreferenceRespond, error) {
	if !ValidKey(key) {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "偏好 key %q 不合法", key)
	}
	p, err := s.repos.Preference.Get(ctx, userId, key)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Newf(errorx.CodeNotFound, "偏好 %s 不存在", key)
		}
		zap.L().Error("get preference", zap.String("user_id", userId), zap.String("key", key), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.PreferenceRespond{Key: p.Key, Value: p.Value}, nil
}

// Set 写入或覆盖一项偏好
func (s *preferenceService) Set(ctx context.Context, userId, key, value string) error {
	if !ValidKey(key) {
		return errorx.Newf(errorx.CodeInvalidParam, "偏好 key %q 不合法", key)
	}
	p := &model.UserPreference{UserId: userId, Key: key, Value: value, UpdatedAt: s.clk.Now()}
	if err := s.repos.Preference.Upsert(ctx, p); err != nil {
		zap.L().Error("set preference", zap.String("user_id", userId), zap.String("key", key), zap.Error(err))
		return errorx.ErrServerBusy
	}
	mq.Notify(ctx, s.broker, mq.TablePreference, userId, userId)
	return nil
}

// All 用户全部偏好
func (s *preferenceService) All(ctx context.Context, userId string) ([]respond.PreferenceRespond, error) {
	list, err := s.repos.Preference.FindAll(ctx, userId)
	if err != nil {
		zap.L().Error("find preferences", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.PreferenceRespond, 0, len(list))
	for _, p := range list {
		rsp = append(rsp, respond.PreferenceRespond{Key: p.Key, Value: p.Value})
	}
	return rsp, nil
}

// Delete 删除一项偏好，不存在返回 NotFound
func (s *preferenceService) Delete(ctx context.Context, userId, key string) error {
	if !ValidKey(key) {
		return errorx.Newf(errorx.CodeInvalidParam, "偏好 key %q 不合法", key)
	}
	n, err := s.repos.Preference.Delete(ctx, userId, key)
	if err != nil {
		zap.L().Error("delete preference", zap.String("user_id", userId), zap.String("key", key), zap.Error(err))
		return errorx.ErrServerBusy
	}
	if n == 0 {
		return errorx.Newf(errorx.CodeNotFound, "偏好 %s 不存在", key)
	}
	mq.Notify(ctx, s.broker, mq.TablePreference, userId, userId)
	return nil
}
