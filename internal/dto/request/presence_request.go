package request

// UpdatePresenceRequest 上报在线状态
type UpdatePresenceRequest struct {
	Status string `json:"status" binding:"required,oneof=online offline away"`
}

// UserIdsRequest 批量查询在线状态
type UserIdsRequest struct {
	UserIds []string `json:"user_ids" binding:"required,min=1,max=200,dive,required"`
}
