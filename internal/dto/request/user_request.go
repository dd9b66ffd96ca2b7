package request

// UpdateProfileRequest 修改个人资料，未传的字段保持不变
// 传空字符串可以清空简介、城市和头像
type UpdateProfileRequest struct {
	FirstName *string  `json:"first_name" binding:"omitempty,min=1,max=30"`
	LastName  *string  `json:"last_name" binding:"omitempty,min=1,max=30"`
	Bio       *string  `json:"bio" binding:"omitempty,max=500"`
	Location  *string  `json:"location" binding:"omitempty,max=100"`
	AvatarUrl *string  `json:"avatar_url" binding:"omitempty,max=255"`
	Skills    []string `json:"skills" binding:"omitempty,min=1,dive,required,max=30"`
	Positions []string `json:"positions" binding:"omitempty,min=1,dive,required,max=30"`
}

// SearchUsersRequest 按用户名或姓名模糊搜索
type SearchUsersRequest struct {
	Q string `form:"q" binding:"required,max=50"`
}
