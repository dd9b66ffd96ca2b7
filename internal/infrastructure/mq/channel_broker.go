package mq

import (
	"context"
	"sync"

	"playmate_server/pkg/constants"

	"go.uber.org/zap"
)

// subscriberBuffer 单个订阅者的缓冲，满了直接丢弃
const subscriberBuffer = 16

type subscriber struct {
	ch chan ChangeEvent
}

// ChannelBroker 单机模式的事件总线
// Publish 写入 Transmit 通道，Start 循环按用户分发给订阅者
type ChannelBroker struct {
	Transmit chan ChangeEvent

	mu   sync.RWMutex
	subs map[string]map[*subscriber]struct{}

	closeOnce sync.Once
	done      chan struct{}
}

// NewChannelBroker 创建单机事件总线
func NewChannelBroker() *ChannelBroker {
	return &ChannelBroker{
		Transmit: make(chan ChangeEvent, constants.CHANNEL_SIZE),
		subs:     make(map[string]map[*subscriber]struct{}),
		done:     make(chan struct{}),
	}
}

// Publish 放入转发通道，通道满时丢弃并记录日志
func (b *ChannelBroker) Publish(_ context.Context, ev ChangeEvent) error {
	select {
	case <-b.done:
		return nil
	default:
	}
	select {
	case b.Transmit <- ev:
	default:
		zap.L().Warn("change event dropped, transmit channel full",
			zap.String("table", string(ev.Table)), zap.String("user_id", ev.UserId))
	}
	return nil
}

// Subscribe 订阅某用户的事件
func (b *ChannelBroker) Subscribe(userId string) (<-chan ChangeEvent, func()) {
	sub := &subscriber{ch: make(chan ChangeEvent, subscriberBuffer)}

	b.mu.Lock()
	set, ok := b.subs[userId]
	if !ok {
		set = make(map[*subscriber]struct{})
		b.subs[userId] = set
	}
	set[sub] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if set, ok := b.subs[userId]; ok {
				delete(set, sub)
				if len(set) == 0 {
					delete(b.subs, userId)
				}
			}
			b.mu.Unlock()
		})
	}
	return sub.ch, cancel
}

// Start 消费 Transmit 通道
func (b *ChannelBroker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.done:
			return
		case ev := <-b.Transmit:
			b.Dispatch(ev)
		}
	}
}

// Dispatch 立即分发给本进程内的订阅者，订阅者缓冲满时丢弃
// 事件只触发重新拉取，丢失一次不影响正确性
func (b *ChannelBroker) Dispatch(ev ChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs[ev.UserId] {
		select {
		case sub.ch <- ev:
		default:
			zap.L().Debug("subscriber slow, change event dropped", zap.String("user_id", ev.UserId))
		}
	}
}

// SubscriberCount 某用户当前的订阅数
func (b *ChannelBroker) SubscriberCount(userId string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[userId])
}

// Close 停止分发
func (b *ChannelBroker) Close() error {
	b.closeOnce.Do(func() { close(b.done) })
	return nil
}

var _ Broker = (*ChannelBroker)(nil)
