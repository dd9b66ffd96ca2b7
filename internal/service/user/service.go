// Package user 账号注册、登录、会话令牌和个人资料
package user

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"playmate_server/internal/dao/mysql/repository"
	myredis "playmate_server/internal/dao/redis"
	"playmate_server/internal/dto/request"
	"playmate_server/internal/dto/respond"
	"playmate_server/internal/infrastructure/mq"
	"playmate_server/internal/model"
	"playmate_server/pkg/constants"
	"playmate_server/pkg/errorx"
	"playmate_server/pkg/util/jwt"
	"playmate_server/pkg/util/random"
)

// PresenceMarker 退出登录时将在线状态置为 offline
type PresenceMarker interface {
	MarkPresence(ctx context.Context, userId string, status model.PresenceStatus)
}

// userInfoService 用户业务逻辑实现
type userInfoService struct {
	repos      *repository.Repositories
	cache      myredis.CacheService
	presence   PresenceMarker
	broker     mq.Broker
	refreshTTL time.Duration
}

// NewUserService 构造函数，refreshTTL 与 Refresh Token 有效期一致
func NewUserService(repos *repository.Repositories, cache myredis.CacheService, presence PresenceMarker, broker mq.Broker, refreshTTL time.Duration) *userInfoService {
	if refreshTTL <= 0 {
		refreshTTL = constants.REFRESH_TOKEN_EXPIRY_HOURS * time.Hour
	}
	return &userInfoService{repos: repos, cache: cache, presence: presence, broker: broker, refreshTTL: refreshTTL}
}

func tokenKey(userId string) string {
	return constants.USER_TOKEN_KEY_PREFIX + userId
}

// Register 用户注册，用户名或邮箱已被占用返回 CodeUserExist
func (u *userInfoService) Register(ctx context.Context, req request.RegisterRequest) (*respond.RegisterRespond, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if len(req.Password) < constants.MIN_PASSWORD_LEN || req.Password != req.ConfirmPassword {
		return nil, errorx.New(errorx.CodeInvalidParam, "两次输入的密码不一致或密码过短")
	}
	skills := model.JoinList(req.Skills)
	positions := model.JoinList(req.Positions)
	if skills == "" || positions == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "请至少选择一项技能和一个位置")
	}

	exists, err := u.repos.User.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		zap.L().Error("check user exists", zap.String("email", email), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if exists {
		return nil, errorx.ErrUserAlreadyExist
	}

	user := &model.UserInfo{
		Uuid:        random.NewID('U'),
		Username:    username,
		Email:       email,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		AvatarUrl:   req.AvatarUrl,
		Skills:      skills,
		Positions:   positions,
		RawPassword: req.Password,
	}
	if err := u.repos.User.Create(ctx, user); err != nil {
		if errorx.IsCode(err, errorx.CodeAlreadyExists) {
			return nil, errorx.ErrUserAlreadyExist
		}
		zap.L().Error("create user", zap.String("email", email), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	zap.L().Info("user registered", zap.String("user_id", user.Uuid))

	return &respond.RegisterRespond{Uuid: user.Uuid, Username: user.Username, Email: user.Email}, nil
}

// Login 邮箱密码登录，签发 Access Token 和 Refresh Token
// Refresh Token 的 tokenID 写入缓存，新登录会顶掉旧会话
func (u *userInfoService) Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := u.repos.User.FindByEmail(ctx, email)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.ErrInvalidPassword
		}
		zap.L().Error("find user by email", zap.String("email", email), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !user.CheckPassword(req.Password) {
		return nil, errorx.ErrInvalidPassword
	}

	accessToken, err := jwt.GenerateAccessToken(user.Uuid)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	refreshToken, tokenID, err := jwt.GenerateRefreshToken(user.Uuid)
	if err != nil {
		zap.L().Error("生成 Refresh Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if err := u.cache.Set(ctx, tokenKey(user.Uuid), tokenID, u.refreshTTL); err != nil {
		zap.L().Error("存储 Token ID 失败", zap.String("user_id", user.Uuid), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	mq.Notify(ctx, u.broker, mq.TableAuth, user.Uuid, user.Uuid)
	return &respond.LoginRespond{
		User:         respond.NewCurrentUser(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshToken 用 Refresh Token 换新的 Access Token
// tokenID 与缓存中的不一致说明已在别处登录或已退出
func (u *userInfoService) RefreshToken(ctx context.Context, refreshToken string) (*respond.RefreshTokenRespond, error) {
	claims, err := jwt.ParseToken(refreshToken)
	if err != nil || claims.Subject != jwt.SubjectRefreshToken || claims.TokenID == "" {
		return nil, errorx.New(errorx.CodeUnauthorized, "Refresh Token 无效或已过期")
	}

	current, err := u.cache.Get(ctx, tokenKey(claims.UserID))
	if err != nil {
		zap.L().Error("读取 Token ID 失败", zap.String("user_id", claims.UserID), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if current != claims.TokenID {
		return nil, errorx.New(errorx.CodeUnauthorized, "登录已失效，请重新登录")
	}

	accessToken, err := jwt.GenerateAccessToken(claims.UserID)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.RefreshTokenRespond{AccessToken: accessToken}, nil
}

// Logout 退出登录：作废 Refresh Token 并置为离线
// sign_out 事件让各实例上该用户的 WebSocket 会话停止心跳并断开
func (u *userInfoService) Logout(ctx context.Context, userId string) error {
	if err := u.cache.Delete(ctx, tokenKey(userId)); err != nil {
		zap.L().Error("删除 Token ID 失败", zap.String("user_id", userId), zap.Error(err))
		return errorx.ErrServerBusy
	}
	if u.presence != nil {
		u.presence.MarkPresence(ctx, userId, model.PresenceOffline)
	}
	mq.Notify(ctx, u.broker, mq.TableSignOut, userId, userId)
	return nil
}

// GetCurrentUser 当前登录用户资料
func (u *userInfoService) GetCurrentUser(ctx context.Context, userId string) (*respond.CurrentUserRespond, error) {
	user, err := u.repos.User.FindByUuid(ctx, userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.ErrUserNotExist
		}
		zap.L().Error("find user", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := respond.NewCurrentUser(user)
	return &rsp, nil
}

// UpdateProfile 只修改请求中出现的字段
// 姓名去掉空白后不能为空，技能和位置传了就至少一项
func (u *userInfoService) UpdateProfile(ctx context.Context, userId string, req request.UpdateProfileRequest) (*respond.CurrentUserRespond, error) {
	updates := make(map[string]any)
	for column, v := range map[string]*string{"first_name": req.FirstName, "last_name": req.LastName} {
		if v == nil {
			continue
		}
		name := strings.TrimSpace(*v)
		if name == "" {
			return nil, errorx.New(errorx.CodeInvalidParam, "姓名不能为空")
		}
		updates[column] = name
	}
	for column, v := range map[string]*string{"bio": req.Bio, "location": req.Location, "avatar_url": req.AvatarUrl} {
		if v != nil {
			updates[column] = strings.TrimSpace(*v)
		}
	}
	for column, list := range map[string][]string{"skills": req.Skills, "positions": req.Positions} {
		if list == nil {
			continue
		}
		joined := model.JoinList(list)
		if joined == "" {
			return nil, errorx.New(errorx.CodeInvalidParam, "请至少选择一项技能和一个位置")
		}
		updates[column] = joined
	}

	if _, err := u.GetCurrentUser(ctx, userId); err != nil {
		return nil, err
	}
	if err := u.repos.User.UpdateProfile(ctx, userId, updates); err != nil {
		zap.L().Error("update profile", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if len(updates) > 0 {
		mq.Notify(ctx, u.broker, mq.TableProfile, userId, userId)
	}
	return u.GetCurrentUser(ctx, userId)
}

// GetProfile 他人主页展示的公开资料
func (u *userInfoService) GetProfile(ctx context.Context, userId string) (*respond.UserInfoRespond, error) {
	user, err := u.repos.User.FindByUuid(ctx, userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.ErrUserNotExist
		}
		zap.L().Error("find user", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := respond.NewUserInfo(user)
	return &rsp, nil
}

// SearchUsers 不包含自己，最多 USER_SEARCH_LIMIT 条
func (u *userInfoService) SearchUsers(ctx context.Context, userId, keyword string) ([]respond.UserInfoRespond, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []respond.UserInfoRespond{}, nil
	}
	users, err := u.repos.User.Search(ctx, keyword, userId, constants.USER_SEARCH_LIMIT)
	if err != nil {
		zap.L().Error("search users", zap.String("keyword", keyword), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.UserInfoRespond, 0, len(users))
	for i := range users {
		rsp = append(rsp, respond.NewUserInfo(&users[i]))
	}
	return rsp, nil
}
