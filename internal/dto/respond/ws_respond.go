package respond

// WsFrame WebSocket 服务端下行帧
//   - changed：Table 对应的数据有变化，客户端应重新拉取，不携带行数据
//   - badges：未读通知数
//   - error：操作失败，Code/Msg 与 HTTP 接口一致
//   - pong：心跳回应
type WsFrame struct {
	Type          string `json:"type"`
	Table         string `json:"table,omitempty"`
	Notifications *int64 `json:"notifications,omitempty"`
	Code          int    `json:"code,omitempty"`
	Msg           string `json:"msg,omitempty"`
}
