package respond

// PreferenceRespond 一项偏好
type PreferenceRespond struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
