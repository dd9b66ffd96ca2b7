package respond

// UserInfoRespond 用户公开资料
type UserInfoRespond struct {
	Uuid      string   `json:"uuid"`
	Username  string   `json:"username"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	AvatarUrl string   `json:"avatar_url"`
	Bio       string   `json:"bio"`
	Location  string   `json:"location"`
	Skills    []string `json:"skills"`
	Positions []string `json:"positions"`
}

// CurrentUserRespond 当前登录用户资料，比公开资料多邮箱和注册时间
type CurrentUserRespond struct {
	UserInfoRespond
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// RegisterRespond 注册响应
type RegisterRespond struct {
	Uuid     string `json:"uuid"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginRespond 登录响应
type LoginRespond struct {
	User         CurrentUserRespond `json:"user"`
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token"`
}

// RefreshTokenRespond 刷新 Token 响应
type RefreshTokenRespond struct {
	AccessToken string `json:"access_token"`
}
