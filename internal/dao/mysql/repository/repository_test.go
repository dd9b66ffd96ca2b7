package repository_test

import (
	"context"
	"testing"
	"time"

	"playmate_server/internal/dao/mysql/mysqltest"
	"playmate_server/internal/dao/mysql/repository"
	"playmate_server/internal/model"
	"playmate_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newRepos(t *testing.T) *repository.Repositories {
	return repository.NewRepositories(mysqltest.NewDB(t))
}

func TestFriendshipPairIsUniqueInBothDirections(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	first := &model.Friendship{ID: "F1", RequesterId: "alice", AddresseeId: "bob", Status: model.FriendshipPending}
	require.NoError(t, repos.Friendship.Create(ctx, first))
	assert.Equal(t, "alice:bob", first.PairKey)

	reverse := &model.Friendship{ID: "F2", RequesterId: "bob", AddresseeId: "alice", Status: model.FriendshipPending}
	err := repos.Friendship.Create(ctx, reverse)
	require.Error(t, err)
	assert.True(t, errorx.IsCode(err, errorx.CodeAlreadyExists))

	found, err := repos.Friendship.FindByPair(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, "F1", found.ID)
}

func TestFriendshipCompareAndSetStatus(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	f := &model.Friendship{ID: "F1", RequesterId: "alice", AddresseeId: "bob", Status: model.FriendshipPending}
	require.NoError(t, repos.Friendship.Create(ctx, f))

	n, err := repos.Friendship.CompareAndSetStatus(ctx, "F1", model.FriendshipPending, model.FriendshipAccepted, baseTime)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repos.Friendship.CompareAndSetStatus(ctx, "F1", model.FriendshipPending, model.FriendshipDeclined, baseTime)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	ids, err := repos.Friendship.FindAcceptedCounterpartIds(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, ids)
}

func TestFriendshipPendingLists(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	require.NoError(t, repos.Friendship.Create(ctx, &model.Friendship{ID: "F1", RequesterId: "alice", AddresseeId: "bob", Status: model.FriendshipPending}))
	require.NoError(t, repos.Friendship.Create(ctx, &model.Friendship{ID: "F2", RequesterId: "carol", AddresseeId: "bob", Status: model.FriendshipPending}))
	require.NoError(t, repos.Friendship.Create(ctx, &model.Friendship{ID: "F3", RequesterId: "bob", AddresseeId: "dave", Status: model.FriendshipPending}))

	received, err := repos.Friendship.FindPendingReceived(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, received, 2)

	sent, err := repos.Friendship.FindPendingSent(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "dave", sent[0].AddresseeId)

	count, err := repos.Friendship.CountPendingReceived(ctx, "bob")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	n, err := repos.Friendship.Delete(ctx, "F2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	_, err = repos.Friendship.FindByID(ctx, "F2")
	assert.True(t, errorx.IsNotFound(err))
}

func TestPresenceUpsertAndWindow(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	prev, err := repos.Presence.Upsert(ctx, &model.Presence{UserId: "alice", Status: model.PresenceOnline, LastSeen: baseTime.Add(-6 * time.Minute)})
	require.NoError(t, err)
	assert.Nil(t, prev)
	_, err = repos.Presence.Upsert(ctx, &model.Presence{UserId: "bob", Status: model.PresenceOnline, LastSeen: baseTime.Add(-time.Minute)})
	require.NoError(t, err)
	_, err = repos.Presence.Upsert(ctx, &model.Presence{UserId: "carol", Status: model.PresenceAway, LastSeen: baseTime})
	require.NoError(t, err)

	since := baseTime.Add(-5 * time.Minute)
	online, err := repos.Presence.FindOnlineSince(ctx, []string{"alice", "bob", "carol"}, since)
	require.NoError(t, err)
	require.Len(t, online, 1)
	assert.Equal(t, "bob", online[0].UserId)

	// 同一用户再次上报覆盖原记录，并拿到覆盖前的值
	prev, err = repos.Presence.Upsert(ctx, &model.Presence{UserId: "alice", Status: model.PresenceOnline, LastSeen: baseTime})
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.True(t, prev.LastSeen.Equal(baseTime.Add(-6*time.Minute)))
	count, err := repos.Presence.CountOnlineSince(ctx, since)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	p, err := repos.Presence.FindByUserId(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, p.LastSeen.Equal(baseTime))
}

func TestUserSearchAndProfileUpdate(t *testing.T) {
	ctx := context.Background()
	db := mysqltest.NewDB(t)
	mysqltest.SeedUsers(t, db, "Umarko", "Umarta", "Uana", "U50pct")
	repos := repository.NewRepositories(db)

	require.NoError(t, repos.User.UpdateProfile(ctx, "Uana", map[string]any{"first_name": "Marija", "bio": "striker"}))
	ana, err := repos.User.FindByUuid(ctx, "Uana")
	require.NoError(t, err)
	assert.Equal(t, "Marija", ana.FirstName)
	assert.Equal(t, "striker", ana.Bio)
	assert.Equal(t, "Test", ana.LastName)

	found, err := repos.User.Search(ctx, "MAR", "Umarko", 10)
	require.NoError(t, err)
	ids := make([]string, 0, len(found))
	for _, u := range found {
		ids = append(ids, u.Uuid)
	}
	assert.ElementsMatch(t, []string{"Umarta", "Uana"}, ids)

	// % 按字面匹配
	found, err = repos.User.Search(ctx, "%", "", 10)
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = repos.User.Search(ctx, "u", "", 2)
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestMessageMarkReadOnlyTouchesOneDirection(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	require.NoError(t, repos.Message.Create(ctx, &model.Message{ID: 1, SenderId: "alice", ReceiverId: "bob", Content: "hi", CreatedAt: baseTime}))
	require.NoError(t, repos.Message.Create(ctx, &model.Message{ID: 2, SenderId: "bob", ReceiverId: "alice", Content: "hey", CreatedAt: baseTime.Add(time.Second)}))
	require.NoError(t, repos.Message.Create(ctx, &model.Message{ID: 3, SenderId: "carol", ReceiverId: "bob", Content: "yo", CreatedAt: baseTime.Add(2 * time.Second)}))

	n, err := repos.Message.MarkRead(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	aliceUnread, err := repos.Message.CountUnread(ctx, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, aliceUnread)

	byPartner, err := repos.Message.CountUnreadByPartner(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, byPartner, 1)
	assert.Equal(t, "carol", byPartner[0].PartnerId)
	assert.EqualValues(t, 1, byPartner[0].Count)

	between, err := repos.Message.FindBetween(ctx, "bob", "alice")
	require.NoError(t, err)
	require.Len(t, between, 2)
	assert.EqualValues(t, 1, between[0].ID)

	involving, err := repos.Message.FindInvolving(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, involving, 3)
	assert.EqualValues(t, 3, involving[0].ID)
}

func TestNotificationScopedToOwner(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	require.NoError(t, repos.Notification.Create(ctx, &model.Notification{ID: "N1", UserId: "alice", Type: model.NotificationGameUpdate, Title: "t1", CreatedAt: baseTime}))
	require.NoError(t, repos.Notification.Create(ctx, &model.Notification{ID: "N2", UserId: "alice", Type: model.NotificationGameUpdate, Title: "t2", CreatedAt: baseTime.Add(time.Second)}))

	n, err := repos.Notification.MarkRead(ctx, "bob", "N1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	n, err = repos.Notification.MarkRead(ctx, "alice", "N1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	unread, err := repos.Notification.CountUnread(ctx, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	list, err := repos.Notification.FindByUser(ctx, "alice", 50)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "N2", list[0].ID)

	n, err = repos.Notification.DeleteAll(ctx, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestStatisticsRankAndLeaderboard(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	rows := []model.UserStatistics{
		{UserId: "alice", Sport: model.SportPadel, GamesPlayed: 3, GamesWon: 2, AverageRating: 2.5},
		{UserId: "bob", Sport: model.SportPadel, GamesPlayed: 4, GamesWon: 3, AverageRating: 2.5},
		{UserId: "carol", Sport: model.SportPadel, GamesPlayed: 1, GamesWon: 1, AverageRating: 3.0},
		{UserId: "dave", Sport: model.SportPadel, GamesPlayed: 0, AverageRating: 3.5},
	}
	for i := range rows {
		require.NoError(t, repos.Statistics.Save(ctx, &rows[i]))
	}

	board, err := repos.Statistics.Leaderboard(ctx, model.SportPadel, 10)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, []string{"carol", "bob", "alice"}, []string{board[0].UserId, board[1].UserId, board[2].UserId})

	ahead, err := repos.Statistics.CountAhead(ctx, model.SportPadel, 2.5, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, ahead)
}

func TestPreferenceUpsert(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	require.NoError(t, repos.Preference.Upsert(ctx, &model.UserPreference{UserId: "alice", Key: "theme", Value: "dark"}))
	require.NoError(t, repos.Preference.Upsert(ctx, &model.UserPreference{UserId: "alice", Key: "theme", Value: "light"}))
	require.NoError(t, repos.Preference.Upsert(ctx, &model.UserPreference{UserId: "bob", Key: "theme", Value: "dark"}))

	p, err := repos.Preference.Get(ctx, "alice", "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", p.Value)

	all, err := repos.Preference.FindAll(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	n, err := repos.Preference.Delete(ctx, "alice", "theme")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	_, err = repos.Preference.Get(ctx, "alice", "theme")
	assert.True(t, errorx.IsNotFound(err))
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	err := repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Preference.Upsert(ctx, &model.UserPreference{UserId: "alice", Key: "theme", Value: "dark"}); err != nil {
			return err
		}
		return errorx.ErrInvalidState
	})
	require.ErrorIs(t, err, errorx.ErrInvalidState)

	_, err = repos.Preference.Get(ctx, "alice", "theme")
	assert.True(t, errorx.IsNotFound(err))
}
