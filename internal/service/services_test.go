package service_test

import (
	"context"
	"testing"
	"time"

	"playmate_server/internal/dao/mysql/mysqltest"
	"playmate_server/internal/dao/mysql/repository"
	myredis "playmate_server/internal/dao/redis"
	"playmate_server/internal/dto/request"
	"playmate_server/internal/infrastructure/mq"
	"playmate_server/internal/model"
	"playmate_server/internal/service"
	"playmate_server/pkg/errorx"
	"playmate_server/pkg/util/clock"
	"playmate_server/pkg/util/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServices(t *testing.T) (*service.Services, *clock.Fake) {
	db := mysqltest.NewDB(t)
	clk := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	svc := service.NewServices(repository.NewRepositories(db), myredis.NewLocalCache(), mq.NewChannelBroker(), service.Options{
		Clock:           clk,
		FreshnessWindow: 5 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
	return svc, clk
}

func register(t *testing.T, svc *service.Services, name string) string {
	rsp, err := svc.User.Register(context.Background(), request.RegisterRequest{
		Username:        name,
		Email:           name + "@playmate.test",
		FirstName:       name,
		LastName:        "Player",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Skills:          []string{"passing"},
		Positions:       []string{"striker"},
	})
	require.NoError(t, err)
	return rsp.Uuid
}

// A 向 B 发请求，B 通过后互发消息，收件箱与已读状态随之变化
func TestFriendAndMessageScenario(t *testing.T) {
	ctx := context.Background()
	svc, clk := newServices(t)
	a := register(t, svc, "alice")
	b := register(t, svc, "bob")

	sent, err := svc.Friend.SendRequest(ctx, a, b)
	require.NoError(t, err)

	inbox, err := svc.Message.Inbox(ctx, b)
	require.NoError(t, err)
	require.Len(t, inbox.PendingRequests, 1)
	assert.Equal(t, a, inbox.PendingRequests[0].User.Uuid)
	assert.EqualValues(t, 1, inbox.RequestsUnread)

	notifications, err := svc.Notification.UnreadCount(ctx, b)
	require.NoError(t, err)
	assert.EqualValues(t, 1, notifications)

	require.NoError(t, svc.Friend.Accept(ctx, b, sent.FriendshipId))
	status, err := svc.Friend.StatusBetween(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, "accepted", status.Status)
	assert.True(t, status.IsRequester)

	clk.Advance(time.Second)
	_, err = svc.Message.SendMessage(ctx, a, b, "  see you at the court  ")
	require.NoError(t, err)

	inbox, err = svc.Message.Inbox(ctx, b)
	require.NoError(t, err)
	assert.Empty(t, inbox.PendingRequests)
	assert.Empty(t, inbox.Requests)
	require.Len(t, inbox.Friends, 1)
	assert.Equal(t, "see you at the court", inbox.Friends[0].LastMessage.Content)
	assert.EqualValues(t, 1, inbox.Friends[0].UnreadCount)
	assert.EqualValues(t, 1, inbox.FriendsUnread)
	assert.EqualValues(t, 0, inbox.RequestsUnread)

	n, err := svc.Message.MarkConversationRead(ctx, b, a)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	unread, err := svc.Message.UnreadCount(ctx, b)
	require.NoError(t, err)
	assert.Zero(t, unread)

	// 通知计数独立于私信：请求、通过、消息各一条
	bNotifications, err := svc.Notification.UnreadCount(ctx, b)
	require.NoError(t, err)
	assert.EqualValues(t, 2, bNotifications)
	aNotifications, err := svc.Notification.UnreadCount(ctx, a)
	require.NoError(t, err)
	assert.EqualValues(t, 1, aNotifications)

	svc.Presence.MarkPresence(ctx, b, model.PresenceOnline)
	online, err := svc.Presence.ListOnlineFriends(ctx, a)
	require.NoError(t, err)
	require.Len(t, online, 1)
	assert.Equal(t, b, online[0].User.Uuid)
}

func TestNonFriendMessagesLandInRequests(t *testing.T) {
	ctx := context.Background()
	svc, _ := newServices(t)
	a := register(t, svc, "alice")
	c := register(t, svc, "carol")

	_, err := svc.Message.SendMessage(ctx, c, a, "want to join our team?")
	require.NoError(t, err)

	inbox, err := svc.Message.Inbox(ctx, a)
	require.NoError(t, err)
	assert.Empty(t, inbox.Friends)
	require.Len(t, inbox.Requests, 1)
	assert.False(t, inbox.Requests[0].IsFriend)
	assert.EqualValues(t, 1, inbox.RequestsUnread)
}

func TestRegisterLoginRefreshLogout(t *testing.T) {
	ctx := context.Background()
	jwt.Init("test-secret-test-secret-test-secret", 30, 1)
	svc, _ := newServices(t)
	uid := register(t, svc, "alice")

	_, err := svc.User.Register(ctx, request.RegisterRequest{
		Username: "alice2", Email: "ALICE@playmate.test", FirstName: "A", LastName: "B",
		Password: "secret1", ConfirmPassword: "secret1", Skills: []string{"x"}, Positions: []string{"y"},
	})
	assert.Equal(t, errorx.CodeUserExist, errorx.GetCode(err))

	_, err = svc.User.Login(ctx, request.LoginRequest{Email: "alice@playmate.test", Password: "wrong"})
	assert.Equal(t, errorx.CodeInvalidPassword, errorx.GetCode(err))

	login, err := svc.User.Login(ctx, request.LoginRequest{Email: "Alice@playmate.test", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, uid, login.User.Uuid)

	refreshed, err := svc.User.RefreshToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.User.RefreshToken(ctx, login.AccessToken)
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))

	require.NoError(t, svc.User.Logout(ctx, uid))
	_, err = svc.User.RefreshToken(ctx, login.RefreshToken)
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))

	me, err := svc.User.GetCurrentUser(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, []string{"passing"}, me.Skills)
}

func TestLogoutPublishesSignOut(t *testing.T) {
	ctx := context.Background()
	jwt.Init("test-secret-test-secret-test-secret", 30, 1)
	broker := mq.NewChannelBroker()
	svc := service.NewServices(repository.NewRepositories(mysqltest.NewDB(t)), myredis.NewLocalCache(), broker, service.Options{
		FreshnessWindow: 5 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
	uid := register(t, svc, "alice")
	_, err := svc.User.Login(ctx, request.LoginRequest{Email: "alice@playmate.test", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, svc.User.Logout(ctx, uid))

	// 登录只发 auth，退出才发 sign_out
	var tables []mq.Table
	for len(broker.Transmit) > 0 {
		ev := <-broker.Transmit
		if ev.UserId == uid {
			tables = append(tables, ev.Table)
		}
	}
	assert.Contains(t, tables, mq.TableAuth)
	assert.Contains(t, tables, mq.TableSignOut)
	assert.Equal(t, mq.TableSignOut, tables[len(tables)-1])

	p, err := svc.Presence.GetUserPresence(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "offline", p.Status)
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	svc, _ := newServices(t)

	require.NoError(t, svc.Preference.Set(ctx, "Ualice", "theme", "dark"))
	require.NoError(t, svc.Preference.Set(ctx, "Ualice", "theme", "light"))
	require.NoError(t, svc.Preference.Set(ctx, "Ubob", "theme", "dark"))

	p, err := svc.Preference.Get(ctx, "Ualice", "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", p.Value)

	err = svc.Preference.Set(ctx, "Ualice", "Bad Key", "x")
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	require.NoError(t, svc.Preference.Delete(ctx, "Ualice", "theme"))
	_, err = svc.Preference.Get(ctx, "Ualice", "theme")
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))

	all, err := svc.Preference.All(ctx, "Ubob")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestNotificationOwnership(t *testing.T) {
	ctx := context.Background()
	svc, _ := newServices(t)

	n, err := svc.Notification.Create(ctx, "Ualice", model.GameUpdatePayload{GameID: "G1"}, "比赛时间变更", "")
	require.NoError(t, err)

	require.NoError(t, svc.Notification.MarkRead(ctx, "Ubob", n.ID))
	count, err := svc.Notification.UnreadCount(ctx, "Ualice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	err = svc.Notification.Delete(ctx, "Ubob", n.ID)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))

	require.NoError(t, svc.Notification.MarkRead(ctx, "Ualice", n.ID))
	require.NoError(t, svc.Notification.MarkRead(ctx, "Ualice", n.ID))
	list, err := svc.Notification.List(ctx, "Ualice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Read)
	assert.Equal(t, "game_update", list[0].Type)
}
