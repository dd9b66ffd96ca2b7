package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"playmate_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthEngine() *gin.Engine {
	r := gin.New()
	r.GET("/me", JWTAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserIDKey))
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	jwt.Init("middleware-test-secret", 30, 24)
	access, err := jwt.GenerateAccessToken("U1")
	require.NoError(t, err)
	refresh, _, err := jwt.GenerateRefreshToken("U1")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "not bearer", header: "Token " + access, status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc.def.ghi", status: http.StatusUnauthorized},
		{name: "refresh token rejected", header: "Bearer " + refresh, status: http.StatusUnauthorized},
		{name: "access token", header: "Bearer " + access, status: http.StatusOK, body: "U1"},
	}

	r := newAuthEngine()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, w.Body.String())
			}
		})
	}
}

func TestRateLimitPerIP(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	r := gin.New()
	r.Use(RateLimit(limiter))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))
	// 不同 IP 互不影响
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))
}

func TestEvictIdleVisitors(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	limiter.Allow("10.0.0.1")
	limiter.evictIdle(0)
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Empty(t, limiter.visitors)
}
