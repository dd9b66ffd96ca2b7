// Package clock 抽象当前时间，在线判定和心跳都通过它取时间，测试中可替换为虚拟时钟
package clock

import (
	"sync"
	"time"
)

// Clock 时间来源
type Clock interface {
	Now() time.Time
}

// Real 系统时钟，统一返回 UTC
type Real struct{}

func (Real) Now() time.Time { return time.Now().UTC() }

// Fake 可手动推进的虚拟时钟
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake 以给定时刻创建虚拟时钟
func NewFake(start time.Time) *Fake {
	return &Fake{now: start.UTC()}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance 向前推进 d
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// Set 直接设定当前时刻
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.now = t.UTC()
	f.mu.Unlock()
}
