package mq

import (
	"testing"
	"time"

	"playmate_server/internal/config"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKafkaBroker(t *testing.T, groupID string) *KafkaBroker {
	k := NewKafkaBroker(&config.KafkaConfig{
		HostPort:   "127.0.0.1:1",
		EventTopic: "playmate_change_events",
		GroupID:    groupID,
		Timeout:    1,
	})
	t.Cleanup(func() { _ = k.Close() })
	return k
}

func TestKafkaBrokerUsesConfiguredGroup(t *testing.T) {
	k := newTestKafkaBroker(t, "playmate-node-a")

	assert.Equal(t, "playmate-node-a", k.Consumer.Config().GroupID)
	assert.Equal(t, "playmate_change_events", k.Consumer.Config().Topic)
	assert.Equal(t, "playmate_change_events", k.Producer.Topic)
	assert.Equal(t, time.Second, k.Producer.WriteTimeout)
}

func TestKafkaEventKeyedByUser(t *testing.T) {
	msg, err := encodeEvent(ChangeEvent{Table: TableMessage, UserId: "Ubob", ActorId: "Ualice"})
	require.NoError(t, err)
	assert.Equal(t, "Ubob", string(msg.Key))
	assert.JSONEq(t, `{"table":"message","user_id":"Ubob","actor_id":"Ualice","at":"0001-01-01T00:00:00Z"}`, string(msg.Value))
}

func TestKafkaBrokerDispatchesToLocalSubscribers(t *testing.T) {
	k := newTestKafkaBroker(t, "playmate-node-a")
	events, unsubscribe := k.Subscribe("Ubob")
	defer unsubscribe()

	msg, err := encodeEvent(ChangeEvent{Table: TableSignOut, UserId: "Ubob"})
	require.NoError(t, err)
	k.handle(kafka.Message{Value: []byte("not json")})
	k.handle(msg)

	select {
	case ev := <-events:
		assert.Equal(t, TableSignOut, ev.Table)
	case <-time.After(time.Second):
		t.Fatal("event not dispatched")
	}
	assert.Empty(t, events)
}
