// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层和 WebSocket 网关调用
// 接口设计遵循依赖倒置原则，便于测试和解耦
package service

import (
	"context"

	"playmate_server/internal/dto/request"
	"playmate_server/internal/dto/respond"
	"playmate_server/internal/model"
)

// UserService 账号业务接口
// 处理注册、登录、令牌刷新、退出和个人资料
type UserService interface {
	// Register 用户注册
	Register(ctx context.Context, req request.RegisterRequest) (*respond.RegisterRespond, error)
	// Login 邮箱密码登录
	Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error)
	// RefreshToken 刷新 Access Token
	RefreshToken(ctx context.Context, refreshToken string) (*respond.RefreshTokenRespond, error)
	// Logout 退出登录
	Logout(ctx context.Context, userId string) error
	// GetCurrentUser 当前登录用户资料
	GetCurrentUser(ctx context.Context, userId string) (*respond.CurrentUserRespond, error)
	// UpdateProfile 修改个人资料，返回修改后的资料
	UpdateProfile(ctx context.Context, userId string, req request.UpdateProfileRequest) (*respond.CurrentUserRespond, error)
	// GetProfile 查看任意用户的公开资料
	GetProfile(ctx context.Context, userId string) (*respond.UserInfoRespond, error)
	// SearchUsers 按用户名或姓名搜索其他用户
	SearchUsers(ctx context.Context, userId, keyword string) ([]respond.UserInfoRespond, error)
}

// PresenceService 在线状态业务接口
type PresenceService interface {
	// MarkPresence 上报状态，尽力而为，失败只记日志
	MarkPresence(ctx context.Context, userId string, status model.PresenceStatus)
	// ListOnlineFriends 当前在线的好友
	ListOnlineFriends(ctx context.Context, userId string) ([]respond.OnlineFriendRespond, error)
	// OnlineCount 全站在线人数
	OnlineCount(ctx context.Context) (int64, error)
	// GetUserPresence 单个用户状态
	GetUserPresence(ctx context.Context, userId string) (*respond.PresenceRespond, error)
	// GetPresenceForUsers 批量查询状态
	GetPresenceForUsers(ctx context.Context, userIds []string) ([]respond.PresenceRespond, error)
}

// FriendService 好友关系业务接口
type FriendService interface {
	// SendRequest 发送好友请求
	SendRequest(ctx context.Context, from, to string) (*respond.SendFriendRequestRespond, error)
	// Accept 通过好友请求
	Accept(ctx context.Context, actor, friendshipId string) error
	// Decline 拒绝好友请求
	Decline(ctx context.Context, actor, friendshipId string) error
	// Remove 删除好友
	Remove(ctx context.Context, actor, friendshipId string) error
	// Block 拉黑
	Block(ctx context.Context, actor, other string) error
	// Unblock 解除拉黑
	Unblock(ctx context.Context, actor, other string) error
	// StatusBetween 两人之间的关系状态
	StatusBetween(ctx context.Context, self, other string) (*respond.FriendshipStatusRespond, error)
	// ListFriends 好友列表
	ListFriends(ctx context.Context, userId string) ([]respond.FriendRespond, error)
	// ListPendingRequests 收到的待处理请求
	ListPendingRequests(ctx context.Context, userId string) ([]respond.FriendRequestRespond, error)
	// ListSentRequests 发出的待处理请求
	ListSentRequests(ctx context.Context, userId string) ([]respond.FriendRequestRespond, error)
}

// MessageService 私信业务接口
type MessageService interface {
	// SendMessage 发送私信
	SendMessage(ctx context.Context, from, to, content string) (*respond.MessageRespond, error)
	// GetConversation 与某人的全部消息
	GetConversation(ctx context.Context, self, partner string) ([]respond.MessageRespond, error)
	// ListConversations 会话列表
	ListConversations(ctx context.Context, self string) ([]respond.ConversationRespond, error)
	// MarkConversationRead 将某个会话标记为已读
	MarkConversationRead(ctx context.Context, self, partner string) (int64, error)
	// UnreadCount 私信未读总数
	UnreadCount(ctx context.Context, self string) (int64, error)
	// Inbox 聊天页数据
	Inbox(ctx context.Context, self string) (*respond.InboxRespond, error)
}

// NotificationService 站内通知业务接口
type NotificationService interface {
	Create(ctx context.Context, userId string, payload model.NotificationPayload, title, content string) (*model.Notification, error)
	List(ctx context.Context, userId string) ([]respond.NotificationRespond, error)
	UnreadCount(ctx context.Context, userId string) (int64, error)
	MarkRead(ctx context.Context, userId, id string) error
	MarkAllRead(ctx context.Context, userId string) (int64, error)
	Delete(ctx context.Context, userId, id string) error
	DeleteAll(ctx context.Context, userId string) (int64, error)
}

// StatsService 战绩业务接口
type StatsService interface {
	// SubmitQuestionnaire 问卷得出初始评分
	SubmitQuestionnaire(ctx context.Context, userId string, req request.QuestionnaireRequest) (*respond.QuestionnaireRespond, error)
	// ProcessGameResult 记录比赛结果
	ProcessGameResult(ctx context.Context, userId string, req request.GameResultRequest) (*respond.GameResultRespond, error)
	GetStatistics(ctx context.Context, userId string, sport model.Sport) (*respond.StatisticsRespond, error)
	GetAllStatistics(ctx context.Context, userId string) ([]respond.StatisticsRespond, error)
	GetGameHistory(ctx context.Context, userId string, sport model.Sport, limit int) ([]respond.GameHistoryRespond, error)
	Leaderboard(ctx context.Context, sport model.Sport, limit int) ([]respond.LeaderboardEntryRespond, error)
	UserRank(ctx context.Context, userId string, sport model.Sport) (*respond.RankRespond, error)
	ListAchievements(ctx context.Context, userId string, sport model.Sport) ([]respond.AchievementRespond, error)
}

// PreferenceService 用户偏好业务接口
type PreferenceService interface {
	Get(ctx context.Context, userId, key string) (*respond.PreferenceRespond, error)
	Set(ctx context.Context, userId, key, value string) error
	All(ctx context.Context, userId string) ([]respond.PreferenceRespond, error)
	Delete(ctx context.Context, userId, key string) error
}
