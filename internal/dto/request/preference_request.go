package request

// SetPreferenceRequest 写入一项偏好，key 取自路径参数
type SetPreferenceRequest struct {
	Value string `json:"value" binding:"max=1024"`
}
