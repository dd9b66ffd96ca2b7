package websocket

import "sync"

// NotificationProjection 会话内的未读通知集合
// 标记已读时先改投影并立即推送角标，存储写入失败再用 undo 回滚
type NotificationProjection struct {
	mu     sync.Mutex
	unread map[string]struct{}
}

// NewNotificationProjection 以未读通知 ID 初始化
func NewNotificationProjection(unreadIds []string) *NotificationProjection {
	p := &NotificationProjection{}
	p.Reset(unreadIds)
	return p
}

// Reset 用存储中的最新结果覆盖投影
func (p *NotificationProjection) Reset(unreadIds []string) {
	unread := make(map[string]struct{}, len(unreadIds))
	for _, id := range unreadIds {
		unread[id] = struct{}{}
	}
	p.mu.Lock()
	p.unread = unread
	p.mu.Unlock()
}

// UnreadCount 投影中的未读数
func (p *NotificationProjection) UnreadCount() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int64(len(p.unread))
}

// MarkRead 从投影移除一条，返回回滚函数，不在投影中时 undo 为空操作
func (p *NotificationProjection) MarkRead(id string) (undo func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.unread[id]; !ok {
		return func() {}
	}
	delete(p.unread, id)
	return func() {
		p.mu.Lock()
		p.unread[id] = struct{}{}
		p.mu.Unlock()
	}
}

// MarkAllRead 清空投影，返回回滚函数
func (p *NotificationProjection) MarkAllRead() (undo func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev := p.unread
	p.unread = make(map[string]struct{})
	return func() {
		p.mu.Lock()
		for id := range prev {
			p.unread[id] = struct{}{}
		}
		p.mu.Unlock()
	}
}
