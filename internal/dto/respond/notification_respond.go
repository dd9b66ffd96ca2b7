package respond

// NotificationRespond 通知，Data 为按 Type 解析后的附加数据
type NotificationRespond struct {
	Id        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Data      any    `json:"data,omitempty"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}
