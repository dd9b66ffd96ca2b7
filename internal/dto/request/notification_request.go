package request

// NotificationIdRequest 按 ID 操作单条通知
type NotificationIdRequest struct {
	Id string `json:"id" binding:"required"`
}
