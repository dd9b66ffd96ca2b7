package mq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"playmate_server/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaBroker 多实例部署的事件总线
// 写入 Kafka 时以 UserId 为 key，同一用户的事件落在同一分区保持顺序
// 每个实例用独立的 GroupID 消费全量事件，再通过内嵌的 ChannelBroker 分发给本机订阅者
type KafkaBroker struct {
	Producer *kafka.Writer
	Consumer *kafka.Reader
	local    *ChannelBroker
}

// NewKafkaBroker 创建 Kafka 事件总线
func NewKafkaBroker(conf *config.KafkaConfig) *KafkaBroker {
	timeout := conf.Timeout * time.Second
	return &KafkaBroker{
		Producer: &kafka.Writer{
			Addr:                   kafka.TCP(conf.HostPort),
			Topic:                  conf.EventTopic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           timeout,
			RequiredAcks:           kafka.RequireOne,
			Async:                  true,
			AllowAutoTopicCreation: true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					zap.L().Error("kafka write change events", zap.Int("count", len(messages)), zap.Error(err))
				}
			},
		},
		Consumer: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{conf.HostPort},
			Topic:          conf.EventTopic,
			CommitInterval: timeout,
			GroupID:        conf.GroupID,
			StartOffset:    kafka.LastOffset,
		}),
		local: NewChannelBroker(),
	}
}

// Publish 写入 Kafka，Writer 为异步模式，不阻塞调用方
func (k *KafkaBroker) Publish(ctx context.Context, ev ChangeEvent) error {
	msg, err := encodeEvent(ev)
	if err != nil {
		return err
	}
	return k.Producer.WriteMessages(ctx, msg)
}

// encodeEvent 以 UserId 为 key
func encodeEvent(ev ChangeEvent) (kafka.Message, error) {
	value, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{Key: []byte(ev.UserId), Value: value}, nil
}

// Subscribe 订阅本机事件
func (k *KafkaBroker) Subscribe(userId string) (<-chan ChangeEvent, func()) {
	return k.local.Subscribe(userId)
}

// Start 消费循环：读取 Kafka -> 反序列化 -> 本机分发
func (k *KafkaBroker) Start(ctx context.Context) {
	for {
		msg, err := k.Consumer.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			zap.L().Error("kafka read change event", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		k.handle(msg)
	}
}

// handle 解析失败的消息跳过
func (k *KafkaBroker) handle(msg kafka.Message) {
	var ev ChangeEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		zap.L().Warn("invalid change event", zap.ByteString("value", msg.Value), zap.Error(err))
		return
	}
	k.local.Dispatch(ev)
}

// Close 关闭生产者和消费者
func (k *KafkaBroker) Close() error {
	var errs []error
	if err := k.Producer.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := k.Consumer.Close(); err != nil {
		errs = append(errs, err)
	}
	_ = k.local.Close()
	return errors.Join(errs...)
}

var _ Broker = (*KafkaBroker)(nil)
