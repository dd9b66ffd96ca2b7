package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playmate_server/internal/dto/respond"
	"playmate_server/internal/infrastructure/mq"
	"playmate_server/internal/model"
	"playmate_server/pkg/errorx"
)

type presenceRecorder struct {
	mu       sync.Mutex
	statuses []model.PresenceStatus
}

func (p *presenceRecorder) MarkPresence(_ context.Context, _ string, status model.PresenceStatus) {
	p.mu.Lock()
	p.statuses = append(p.statuses, status)
	p.mu.Unlock()
}

func (p *presenceRecorder) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.statuses)
}

func (p *presenceRecorder) last() model.PresenceStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.statuses) == 0 {
		return ""
	}
	return p.statuses[len(p.statuses)-1]
}

type fakeNotifications struct {
	mu      sync.Mutex
	items   []respond.NotificationRespond
	failing bool
}

func (f *fakeNotifications) List(context.Context, string) ([]respond.NotificationRespond, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]respond.NotificationRespond(nil), f.items...), nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, _, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errorx.ErrServerBusy
	}
	for i := range f.items {
		if f.items[i].Id == id {
			f.items[i].Read = true
		}
	}
	return nil
}

func (f *fakeNotifications) MarkAllRead(context.Context, string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return 0, errorx.ErrServerBusy
	}
	for i := range f.items {
		f.items[i].Read = true
	}
	return int64(len(f.items)), nil
}

type memoryPreferences struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func (m *memoryPreferences) Get(_ context.Context, _, key string) (*respond.PreferenceRespond, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, errorx.ErrNotFound
	}
	return &respond.PreferenceRespond{Key: key, Value: v}, nil
}

func (m *memoryPreferences) Set(_ context.Context, _, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

type harness struct {
	gateway  *Gateway
	conn     *websocket.Conn
	presence *presenceRecorder
	notes    *fakeNotifications
	prefs    *memoryPreferences
	broker   *mq.ChannelBroker
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithHeartbeat(t, time.Hour)
}

func newHarnessWithHeartbeat(t *testing.T, heartbeat time.Duration) *harness {
	h := &harness{
		presence: &presenceRecorder{},
		notes: &fakeNotifications{items: []respond.NotificationRespond{
			{Id: "N1"}, {Id: "N2"}, {Id: "N3", Read: true},
		}},
		prefs:  &memoryPreferences{values: map[string]string{"selected_sport": "padel"}},
		broker: mq.NewChannelBroker(),
	}
	ctx, cancel := context.WithCancel(context.Background())
	go h.broker.Start(ctx)

	h.gateway = NewGateway(Deps{
		Presence:      h.presence,
		Notifications: h.notes,
		Preferences:   h.prefs,
		Broker:        h.broker,
		Heartbeat:     heartbeat,
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, h.gateway.Serve(w, r, "Ualice"))
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	h.conn = conn

	t.Cleanup(func() {
		_ = conn.Close()
		h.gateway.Close()
		srv.Close()
		cancel()
		_ = h.broker.Close()
	})
	return h
}

func (h *harness) send(t *testing.T, frame map[string]string) {
	require.NoError(t, h.conn.WriteJSON(frame))
}

// next 读取下一个指定类型的帧，其他帧跳过
func (h *harness) next(t *testing.T, typ string) respond.WsFrame {
	t.Helper()
	_ = h.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, raw, err := h.conn.ReadMessage()
		require.NoError(t, err)
		var frame respond.WsFrame
		require.NoError(t, json.Unmarshal(raw, &frame))
		if frame.Type == typ {
			return frame
		}
	}
}

func TestSessionStartsOnlineWithBadges(t *testing.T) {
	h := newHarness(t)

	badges := h.next(t, FrameBadges)
	require.NotNil(t, badges.Notifications)
	assert.EqualValues(t, 2, *badges.Notifications)
	assert.Equal(t, model.PresenceOnline, h.presence.last())

	h.send(t, map[string]string{"type": "ping"})
	h.next(t, FramePong)
}

func TestSessionForwardsChangeEvents(t *testing.T) {
	h := newHarness(t)
	h.next(t, FrameBadges)

	require.Eventually(t, func() bool { return h.broker.SubscriberCount("Ualice") == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, h.broker.Publish(context.Background(), mq.ChangeEvent{Table: mq.TableMessage, UserId: "Ualice"}))
	changed := h.next(t, FrameChanged)
	assert.Equal(t, "message", changed.Table)
}

func TestSessionRollsBackFailedMarkRead(t *testing.T) {
	h := newHarness(t)
	h.next(t, FrameBadges)
	h.notes.mu.Lock()
	h.notes.failing = true
	h.notes.mu.Unlock()

	h.send(t, map[string]string{"type": "mark_notification_read", "id": "N1"})
	optimistic := h.next(t, FrameBadges)
	assert.EqualValues(t, 1, *optimistic.Notifications)
	rolledBack := h.next(t, FrameBadges)
	assert.EqualValues(t, 2, *rolledBack.Notifications)
	failure := h.next(t, FrameError)
	assert.Equal(t, errorx.CodeServerBusy, failure.Code)
}

func TestSessionMarkAllRead(t *testing.T) {
	h := newHarness(t)
	h.next(t, FrameBadges)

	h.send(t, map[string]string{"type": "mark_all_notifications_read"})
	badges := h.next(t, FrameBadges)
	assert.EqualValues(t, 0, *badges.Notifications)

	list, err := h.notes.List(context.Background(), "Ualice")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		list, _ = h.notes.List(context.Background(), "Ualice")
		return list[0].Read && list[1].Read
	}, time.Second, 10*time.Millisecond)
}

func TestSessionSelectSportPersistsPreference(t *testing.T) {
	h := newHarness(t)
	h.next(t, FrameBadges)

	h.send(t, map[string]string{"type": "select_sport", "sport": "chess"})
	assert.Equal(t, errorx.CodeInvalidParam, h.next(t, FrameError).Code)

	h.send(t, map[string]string{"type": "select_sport", "sport": "basketball"})
	h.send(t, map[string]string{"type": "ping"})
	h.next(t, FramePong)
	got, err := h.prefs.Get(context.Background(), "Ualice", "selected_sport")
	require.NoError(t, err)
	assert.Equal(t, "basketball", got.Value)

	h.prefs.mu.Lock()
	h.prefs.err = errors.New("db down")
	h.prefs.mu.Unlock()
	h.send(t, map[string]string{"type": "set_theme", "theme": "dark"})
	h.next(t, FrameError)
}

func TestSessionBackgroundAndDisconnect(t *testing.T) {
	h := newHarness(t)
	h.next(t, FrameBadges)

	h.send(t, map[string]string{"type": "background"})
	h.send(t, map[string]string{"type": "ping"})
	h.next(t, FramePong)
	assert.Equal(t, model.PresenceAway, h.presence.last())

	h.send(t, map[string]string{"type": "foreground"})
	h.send(t, map[string]string{"type": "ping"})
	h.next(t, FramePong)
	assert.Equal(t, model.PresenceOnline, h.presence.last())

	require.NoError(t, h.conn.Close())
	require.Eventually(t, func() bool {
		return h.gateway.SessionCount() == 0 && h.presence.last() == model.PresenceOffline
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSessionEndsOnSignOut(t *testing.T) {
	h := newHarnessWithHeartbeat(t, 20*time.Millisecond)
	h.next(t, FrameBadges)

	// 等到心跳至少跑过一次
	require.Eventually(t, func() bool { return h.presence.count() >= 2 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return h.broker.SubscriberCount("Ualice") == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, h.broker.Publish(context.Background(), mq.ChangeEvent{Table: mq.TableSignOut, UserId: "Ualice"}))

	require.Eventually(t, func() bool {
		return h.gateway.SessionCount() == 0 && h.presence.last() == model.PresenceOffline
	}, 2*time.Second, 10*time.Millisecond)

	// 心跳已停止，之后不再写入 online
	writes := h.presence.count()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, writes, h.presence.count())
	assert.Equal(t, model.PresenceOffline, h.presence.last())

	_ = h.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := h.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func TestNotificationProjectionUndo(t *testing.T) {
	p := NewNotificationProjection([]string{"N1", "N2"})
	undo := p.MarkRead("N1")
	assert.EqualValues(t, 1, p.UnreadCount())
	undo()
	assert.EqualValues(t, 2, p.UnreadCount())

	p.MarkRead("missing")()
	assert.EqualValues(t, 2, p.UnreadCount())

	undoAll := p.MarkAllRead()
	assert.Zero(t, p.UnreadCount())
	undoAll()
	assert.EqualValues(t, 2, p.UnreadCount())
}

func TestAppStatePresenceStatus(t *testing.T) {
	var s AppState
	assert.Equal(t, model.PresenceOnline, s.PresenceStatus())
	s.SetBackground(true)
	assert.Equal(t, model.PresenceAway, s.PresenceStatus())
	assert.Equal(t, model.Sport(""), s.SetSport(model.SportPadel))
	assert.Equal(t, model.SportPadel, s.Sport())
}
