package websocket

import (
	"sync"

	"playmate_server/internal/model"
)

// AppState 单个会话内的客户端状态，会话开始时从偏好初始化，会话结束即丢弃
type AppState struct {
	mu           sync.RWMutex
	sport        model.Sport
	theme        string
	inBackground bool
}

// Sport 当前选中的项目，未选择为空
func (a *AppState) Sport() model.Sport {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sport
}

// SetSport 返回之前的值，便于回滚
func (a *AppState) SetSport(s model.Sport) model.Sport {
	a.mu.Lock()
	defer a.mu.Unlock()
	prev := a.sport
	a.sport = s
	return prev
}

func (a *AppState) Theme() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.theme
}

// SetTheme 返回之前的值，便于回滚
func (a *AppState) SetTheme(theme string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	prev := a.theme
	a.theme = theme
	return prev
}

// SetBackground 切到后台或回到前台
func (a *AppState) SetBackground(bg bool) {
	a.mu.Lock()
	a.inBackground = bg
	a.mu.Unlock()
}

// PresenceStatus 心跳应上报的状态，后台为 away
func (a *AppState) PresenceStatus() model.PresenceStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.inBackground {
		return model.PresenceAway
	}
	return model.PresenceOnline
}
