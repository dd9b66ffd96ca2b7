package request

// RegisterRequest 用户注册请求
// 使用位置:
//   - internal/handler/user_handler.go: Register
//   - internal/service/user/service.go: Register
type RegisterRequest struct {
	Username        string   `json:"username" binding:"required,min=3,max=30"`
	Email           string   `json:"email" binding:"required,email,max=100"`
	FirstName       string   `json:"first_name" binding:"required,max=30"`
	LastName        string   `json:"last_name" binding:"required,max=30"`
	Password        string   `json:"password" binding:"required,min=6"`
	ConfirmPassword string   `json:"confirm_password" binding:"required,eqfield=Password"`
	Skills          []string `json:"skills" binding:"required,min=1,dive,required,max=30"`
	Positions       []string `json:"positions" binding:"required,min=1,dive,required,max=30"`
	AvatarUrl       string   `json:"avatar_url" binding:"omitempty,url,max=255"`
}

// LoginRequest 邮箱密码登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest 刷新 Access Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
