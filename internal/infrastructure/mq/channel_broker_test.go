package mq

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelBrokerRoutesByUser(t *testing.T) {
	b := NewChannelBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Start(ctx)

	alice, cancelAlice := b.Subscribe("alice")
	defer cancelAlice()
	bob, cancelBob := b.Subscribe("bob")
	defer cancelBob()

	require.NoError(t, b.Publish(ctx, ChangeEvent{Table: TableFriendship, UserId: "alice", ActorId: "bob"}))

	select {
	case ev := <-alice:
		assert.Equal(t, TableFriendship, ev.Table)
		assert.Equal(t, "bob", ev.ActorId)
	case <-time.After(time.Second):
		t.Fatal("alice did not receive event")
	}

	select {
	case ev := <-bob:
		t.Fatalf("bob received unexpected event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestChannelBrokerDropsWhenSubscriberFull(t *testing.T) {
	b := NewChannelBroker()
	ch, cancel := b.Subscribe("alice")
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		b.Dispatch(ChangeEvent{Table: TableMessage, UserId: "alice"})
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestChannelBrokerUnsubscribe(t *testing.T) {
	b := NewChannelBroker()
	_, cancel := b.Subscribe("alice")
	_, cancel2 := b.Subscribe("alice")
	assert.Equal(t, 2, b.SubscriberCount("alice"))

	cancel()
	cancel()
	assert.Equal(t, 1, b.SubscriberCount("alice"))
	cancel2()
	assert.Equal(t, 0, b.SubscriberCount("alice"))
}

func TestChannelBrokerPublishAfterClose(t *testing.T) {
	b := NewChannelBroker()
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	assert.NoError(t, b.Publish(context.Background(), ChangeEvent{Table: TableMessage, UserId: "alice"}))
}
