package constants

import "time"

const (
	CHANNEL_SIZE               = 100 // 通道大小
	REDIS_TIMEOUT              = 1   // redis timeout (分钟)
	REFRESH_TOKEN_EXPIRY_HOURS = 168 // Refresh Token 有效期（小时），168小时 = 7天
	FRIEND_SET_EXPIRY_MINUTES  = 30  // 好友 ID 集合缓存有效期（分钟）
	LIST_LIMIT                 = 50  // 列表类查询默认条数
	USER_SEARCH_LIMIT          = 10  // 用户搜索最多返回条数
	MIN_PASSWORD_LEN           = 6   // 密码最小长度
	MIN_MOTIVATION_WORDS       = 5   // 问卷文字题最少词数
)

// 在线状态判定
const (
	PRESENCE_FRESHNESS_WINDOW = 5 * time.Minute  // 超过该时长未心跳即视为离线
	PRESENCE_HEARTBEAT_PERIOD = 30 * time.Second // 客户端会话心跳间隔
	ONLINE_COUNT_SNAPSHOT_TTL = 10 * time.Second // 在线人数快照缓存
)

// 缓存 key 前缀
const (
	USER_TOKEN_KEY_PREFIX     = "user_token:"
	FRIEND_SET_KEY_PREFIX     = "friend_relation:user:"
	ONLINE_COUNT_SNAPSHOT_KEY = "presence:online_count"
)

// 用户偏好中约定的 key
const (
	PREF_ONBOARDING_COMPLETED = "onboarding_completed"
	PREF_SELECTED_SPORT       = "selected_sport"
	PREF_THEME                = "theme"
)
