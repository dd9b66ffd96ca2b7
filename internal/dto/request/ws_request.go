package request

// WsFrame WebSocket 客户端上行帧
// Type 取值：ping / background / foreground / select_sport / set_theme /
// mark_notification_read / mark_all_notifications_read
type WsFrame struct {
	Type  string `json:"type"`
	Sport string `json:"sport,omitempty"`
	Theme string `json:"theme,omitempty"`
	Id    string `json:"id,omitempty"`
}
