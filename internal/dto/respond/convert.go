package respond

import (
	"strconv"
	"time"

	"playmate_server/internal/model"
)

// TimeLayout 接口返回的时间格式，统一为 UTC
const TimeLayout = time.RFC3339

// FormatTime 零值返回空串
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

// NewUserInfo 用户公开资料
func NewUserInfo(u *model.UserInfo) UserInfoRespond {
	return UserInfoRespond{
		Uuid:      u.Uuid,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		AvatarUrl: u.AvatarUrl,
		Bio:       u.Bio,
		Location:  u.Location,
		Skills:    u.SkillList(),
		Positions: u.PositionList(),
	}
}

// NewCurrentUser 当前登录用户资料
func NewCurrentUser(u *model.UserInfo) CurrentUserRespond {
	return CurrentUserRespond{
		UserInfoRespond: NewUserInfo(u),
		Email:           u.Email,
		CreatedAt:       FormatTime(u.CreatedAt),
	}
}

// NewMessage 私信，雪花 ID 以字符串返回，避免前端精度丢失
func NewMessage(m *model.Message) MessageRespond {
	return MessageRespond{
		Id:         formatInt(m.ID),
		SenderId:   m.SenderId,
		ReceiverId: m.ReceiverId,
		Content:    m.Content,
		Read:       m.Read,
		CreatedAt:  FormatTime(m.CreatedAt),
	}
}

// UnknownUser 对方账号已不存在时的占位资料
func UnknownUser(uuid string) UserInfoRespond {
	return UserInfoRespond{Uuid: uuid, Skills: []string{}, Positions: []string{}}
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
