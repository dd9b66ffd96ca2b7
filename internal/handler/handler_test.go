package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"playmate_server/internal/dao/mysql/mysqltest"
	"playmate_server/internal/dao/mysql/repository"
	myredis "playmate_server/internal/dao/redis"
	"playmate_server/internal/dto/respond"
	"playmate_server/internal/gateway/websocket"
	"playmate_server/internal/handler"
	"playmate_server/internal/infrastructure/mq"
	"playmate_server/internal/router"
	"playmate_server/internal/service"
	"playmate_server/pkg/errorx"
	"playmate_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	jwt.Init("handler-test-secret-handler-test-secret", 30, 1)
	if err := handler.InitTrans("en"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type envelope struct {
	Code int             `json:"code"`
	Msg  json.RawMessage `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type api struct {
	t      *testing.T
	engine *gin.Engine
}

func newAPI(t *testing.T) *api {
	db := mysqltest.NewDB(t)
	svc := service.NewServices(repository.NewRepositories(db), myredis.NewLocalCache(), mq.NewChannelBroker(), service.Options{
		FreshnessWindow: 5 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
	gateway := websocket.NewGateway(websocket.Deps{Presence: svc.Presence, Broker: mq.NewChannelBroker()})
	t.Cleanup(gateway.Close)

	engine := gin.New()
	router.NewRouter(handler.NewHandlers(svc, gateway)).RegisterRoutes(engine)
	return &api{t: t, engine: engine}
}

func (a *api) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, router.APIPrefix+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func (a *api) ok(method, path, token string, body, out any) {
	a.t.Helper()
	status, env := a.do(method, path, token, body)
	require.Equal(a.t, http.StatusOK, status)
	require.Equal(a.t, errorx.CodeSuccess, env.Code, string(env.Msg))
	if out != nil {
		require.NoError(a.t, json.Unmarshal(env.Data, out))
	}
}

// signup 注册并登录，返回用户 ID 和 Access Token
func (a *api) signup(name string) (string, string) {
	a.t.Helper()
	a.ok(http.MethodPost, "/auth/register", "", gin.H{
		"username":         name,
		"email":            name + "@playmate.test",
		"first_name":       name,
		"last_name":        "Player",
		"password":         "secret1",
		"confirm_password": "secret1",
		"skills":           []string{"dribbling"},
		"positions":        []string{"winger"},
	}, nil)

	var login respond.LoginRespond
	a.ok(http.MethodPost, "/auth/login", "", gin.H{
		"email":    name + "@playmate.test",
		"password": "secret1",
	}, &login)
	require.NotEmpty(a.t, login.AccessToken)
	return login.User.Uuid, login.AccessToken
}

func TestAuthFlow(t *testing.T) {
	a := newAPI(t)
	uid, token := a.signup("alice")

	var me respond.CurrentUserRespond
	a.ok(http.MethodGet, "/auth/me", token, nil, &me)
	assert.Equal(t, uid, me.Uuid)
	assert.Equal(t, "alice@playmate.test", me.Email)

	status, env := a.do(http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, errorx.CodeUnauthorized, env.Code)

	_, env = a.do(http.MethodPost, "/auth/login", "", gin.H{"email": "alice@playmate.test", "password": "wrong-pass"})
	assert.Equal(t, errorx.CodeInvalidPassword, env.Code)
}

func TestRegisterValidation(t *testing.T) {
	a := newAPI(t)
	_, env := a.do(http.MethodPost, "/auth/register", "", gin.H{
		"username":         "bob",
		"email":            "not-an-email",
		"first_name":       "Bob",
		"last_name":        "Player",
		"password":         "secret1",
		"confirm_password": "secret2",
		"skills":           []string{"passing"},
		"positions":        []string{"keeper"},
	})
	assert.Equal(t, errorx.CodeInvalidParam, env.Code)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(env.Msg, &fields))
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "confirm_password")
}

func TestFriendRequestOverHTTP(t *testing.T) {
	a := newAPI(t)
	alice, aliceToken := a.signup("alice")
	bob, bobToken := a.signup("bob")

	var sent respond.SendFriendRequestRespond
	a.ok(http.MethodPost, "/friend/request", aliceToken, gin.H{"addressee_id": bob}, &sent)
	assert.Equal(t, "pending", sent.Status)

	_, env := a.do(http.MethodPost, "/friend/request", bobToken, gin.H{"addressee_id": alice})
	assert.Equal(t, errorx.CodeAlreadyExists, env.Code)

	var pending []respond.FriendRequestRespond
	a.ok(http.MethodGet, "/friend/pending", bobToken, nil, &pending)
	require.Len(t, pending, 1)
	assert.Equal(t, alice, pending[0].User.Uuid)

	// 发起方不能通过自己的请求
	_, env = a.do(http.MethodPost, "/friend/accept", aliceToken, gin.H{"friendship_id": sent.FriendshipId})
	assert.Equal(t, errorx.CodeForbidden, env.Code)

	a.ok(http.MethodPost, "/friend/accept", bobToken, gin.H{"friendship_id": sent.FriendshipId}, nil)

	var friends []respond.FriendRespond
	a.ok(http.MethodGet, "/friend/list", aliceToken, nil, &friends)
	require.Len(t, friends, 1)
	assert.Equal(t, bob, friends[0].User.Uuid)

	var msg respond.MessageRespond
	a.ok(http.MethodPost, "/message/send", aliceToken, gin.H{"receiver_id": bob, "content": "game tonight?"}, &msg)

	var unread respond.UnreadCountRespond
	a.ok(http.MethodGet, "/message/unread-count", bobToken, nil, &unread)
	assert.EqualValues(t, 1, unread.Count)
}

func TestQuestionnaireMotivationWords(t *testing.T) {
	a := newAPI(t)
	_, token := a.signup("carol")

	body := gin.H{
		"sport":       "padel",
		"experience":  "over_3_years",
		"frequency":   "weekly",
		"skill_level": "intermediate",
		"training":    "club_member",
		"motivation":  "just for fun",
	}
	_, env := a.do(http.MethodPost, "/stats/questionnaire", token, body)
	assert.Equal(t, errorx.CodeInvalidParam, env.Code)

	body["motivation"] = "I want to meet new people and improve"
	var rsp respond.QuestionnaireRespond
	a.ok(http.MethodPost, "/stats/questionnaire", token, body, &rsp)
	assert.Equal(t, "padel", rsp.Sport)
	assert.InDelta(t, 3.3, rsp.InitialRating, 1e-9)
}

func TestPreferenceRoundTrip(t *testing.T) {
	a := newAPI(t)
	_, token := a.signup("dave")

	a.ok(http.MethodPut, "/preference/theme", token, gin.H{"value": "dark"}, nil)

	var pref respond.PreferenceRespond
	a.ok(http.MethodGet, "/preference/theme", token, nil, &pref)
	assert.Equal(t, "dark", pref.Value)

	_, env := a.do(http.MethodPut, "/preference/Bad-Key", token, gin.H{"value": "x"})
	assert.Equal(t, errorx.CodeInvalidParam, env.Code)

	a.ok(http.MethodDelete, "/preference/theme", token, nil, nil)
	_, env = a.do(http.MethodGet, "/preference/theme", token, nil)
	assert.Equal(t, errorx.CodeNotFound, env.Code)
}

func TestProfileEditViewAndSearch(t *testing.T) {
	a := newAPI(t)
	alice, aliceToken := a.signup("alice")
	_, bobToken := a.signup("bob")

	var me respond.CurrentUserRespond
	a.ok(http.MethodPut, "/user/profile", aliceToken, gin.H{
		"bio":      "  Weekend striker  ",
		"location": "Beograd",
		"skills":   []string{"shooting", "dribbling"},
	}, &me)
	assert.Equal(t, "Weekend striker", me.Bio)
	assert.Equal(t, "Beograd", me.Location)
	assert.Equal(t, []string{"shooting", "dribbling"}, me.Skills)
	assert.Equal(t, []string{"winger"}, me.Positions)

	var profile respond.UserInfoRespond
	a.ok(http.MethodGet, "/user/"+alice, bobToken, nil, &profile)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "Beograd", profile.Location)

	_, env := a.do(http.MethodGet, "/user/Unobody", bobToken, nil)
	assert.Equal(t, errorx.CodeUserNotExist, env.Code)

	_, env = a.do(http.MethodPut, "/user/profile", aliceToken, gin.H{"first_name": "   "})
	assert.Equal(t, errorx.CodeInvalidParam, env.Code)

	var found []respond.UserInfoRespond
	a.ok(http.MethodGet, "/user/search?q=ALI", bobToken, nil, &found)
	require.Len(t, found, 1)
	assert.Equal(t, alice, found[0].Uuid)

	// 搜索结果不包含自己
	a.ok(http.MethodGet, "/user/search?q=ali", aliceToken, nil, &found)
	assert.Empty(t, found)

	_, env = a.do(http.MethodGet, "/user/search", bobToken, nil)
	assert.Equal(t, errorx.CodeInvalidParam, env.Code)
}

func TestWebsocketRequiresToken(t *testing.T) {
	a := newAPI(t)
	status, env := a.do(http.MethodGet, "/ws", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, errorx.CodeUnauthorized, env.Code)
}

func TestHandleListDegradesServerErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"ok", nil, errorx.CodeSuccess},
		{"server busy", errorx.ErrServerBusy, errorx.CodeSuccess},
		{"forbidden", errorx.ErrForbidden, errorx.CodeForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/list", nil)

			var data []string
			if tc.err == nil {
				data = []string{"a"}
			}
			handler.HandleList(c, data, tc.err)

			var env envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.Equal(t, tc.code, env.Code)
			if tc.code == errorx.CodeSuccess {
				var got []string
				require.NoError(t, json.Unmarshal(env.Data, &got))
				assert.NotNil(t, got)
			}
		})
	}
}
