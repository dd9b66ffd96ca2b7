package redis

import (
	"context"
	"sort"
	"testing"
	"time"

	"playmate_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalCacheStringTTL(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	now = now.Add(2 * time.Minute)
	v, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, v)

	_, err = c.GetOrError(ctx, "k")
	assert.True(t, errorx.IsNotFound(err))
}

func TestLocalCacheSet(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache()

	require.NoError(t, c.AddToSet(ctx, "friends", "a", "b", "a"))
	members, err := c.GetSetMembers(ctx, "friends")
	require.NoError(t, err)
	sort.Strings(members)
	assert.Equal(t, []string{"a", "b"}, members)

	require.NoError(t, c.RemoveFromSet(ctx, "friends", "a", "b"))
	ok, err := c.Exists(ctx, "friends")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalCacheDeleteByPattern(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache()

	require.NoError(t, c.Set(ctx, "user_token:U1:t1", "1", 0))
	require.NoError(t, c.Set(ctx, "user_token:U1:t2", "1", 0))
	require.NoError(t, c.Set(ctx, "user_token:U2:t3", "1", 0))

	require.NoError(t, c.DeleteByPattern(ctx, "user_token:U1:*"))

	ok, _ := c.Exists(ctx, "user_token:U1:t1")
	assert.False(t, ok)
	ok, _ = c.Exists(ctx, "user_token:U2:t3")
	assert.True(t, ok)
}

func TestLocalCacheSubmitTaskRecoversPanic(t *testing.T) {
	c := NewLocalCache()
	ran := false
	assert.NotPanics(t, func() {
		c.SubmitTask(func() { panic("boom") })
		c.SubmitTask(func() { ran = true })
	})
	assert.True(t, ran)
}
