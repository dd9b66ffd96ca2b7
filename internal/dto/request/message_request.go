package request

// SendMessageRequest 发送私信
// Content 前后空白在 Service 层去除，去除后为空视为参数错误
type SendMessageRequest struct {
	ReceiverId string `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required,max=2000"`
}
