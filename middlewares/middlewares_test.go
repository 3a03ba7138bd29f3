package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/junkeats-app/models"
	"github.com/yeremiapane/junkeats-app/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextSessionID))
	})
	return r
}

func get(r http.Handler, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type knownSessions map[string]bool

func (k knownSessions) Get(id string) (*models.Session, error) {
	if !k[id] {
		return nil, errors.New("session not found")
	}
	return &models.Session{ID: id}, nil
}

func TestSessionAuth(t *testing.T) {
	r := newEngine(SessionAuth(nil))
	token, err := utils.GenerateToken("session-abc", 1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/", map[string]string{"Authorization": token}).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/", map[string]string{"Authorization": "Bearer nope"}).Code)

	w := get(r, "/", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "session-abc", w.Body.String())

	utils.BlacklistToken(token, time.Now().Add(time.Hour))
	assert.Equal(t, http.StatusUnauthorized, get(r, "/", map[string]string{"Authorization": "Bearer " + token}).Code)
}

func TestSessionAuthRejectsUnknownSession(t *testing.T) {
	r := newEngine(SessionAuth(knownSessions{"session-live": true}))

	live, err := utils.GenerateToken("session-live", 1)
	require.NoError(t, err)
	gone, err := utils.GenerateToken("session-gone", 1)
	require.NoError(t, err)

	w := get(r, "/", map[string]string{"Authorization": "Bearer " + live})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "session-live", w.Body.String())
	assert.Equal(t, http.StatusUnauthorized, get(r, "/", map[string]string{"Authorization": "Bearer " + gone}).Code)
}

func TestWebSocketAuthReadsQueryToken(t *testing.T) {
	r := newEngine(WebSocketAuthMiddleware(knownSessions{"session-ws": true}))
	token, err := utils.GenerateToken("session-ws", 1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/", nil).Code)
	w := get(r, "/?token="+token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "session-ws", w.Body.String())
}

func TestCORSAllowsConfiguredOrigins(t *testing.T) {
	r := newEngine(CORSMiddlewares([]string{"http://localhost:3000"}))

	w := get(r, "/", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = get(r, "/", map[string]string{"Origin": "http://evil.example"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSlidingWindowRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, 60)
	now := time.Now()

	assert.True(t, rl.allow("1.2.3.4", now))
	assert.True(t, rl.allow("1.2.3.4", now.Add(time.Second)))
	assert.False(t, rl.allow("1.2.3.4", now.Add(2*time.Second)))
	assert.True(t, rl.allow("5.6.7.8", now))
	assert.True(t, rl.allow("1.2.3.4", now.Add(61*time.Second)))
}

func TestIPRateLimiter(t *testing.T) {
	r := newEngine(PerMinute(2).Middleware())

	assert.Equal(t, http.StatusOK, get(r, "/", nil).Code)
	assert.Equal(t, http.StatusOK, get(r, "/", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/", nil).Code)
}

func TestSlidingWindowForgetsIdleIPs(t *testing.T) {
	rl := NewRateLimiter(5, 60)
	now := time.Now()

	rl.allow("1.1.1.1", now)
	rl.allow("2.2.2.2", now.Add(30*time.Second))
	assert.Len(t, rl.ips, 2)

	rl.allow("3.3.3.3", now.Add(75*time.Second))
	assert.NotContains(t, rl.ips, "1.1.1.1")
	assert.Contains(t, rl.ips, "2.2.2.2")
	assert.Contains(t, rl.ips, "3.3.3.3")
}

func TestIPRateLimiterForgetsIdleBuckets(t *testing.T) {
	l := PerMinute(2)
	now := time.Now()

	assert.True(t, l.limiter("1.1.1.1", now).Allow())
	l.limiter("2.2.2.2", now.Add(30*time.Second))
	assert.Len(t, l.limiters, 2)

	l.limiter("3.3.3.3", now.Add(61*time.Second))
	assert.NotContains(t, l.limiters, "1.1.1.1")
	assert.Contains(t, l.limiters, "2.2.2.2")
	assert.Len(t, l.limiters, 2)
}

func TestSecurityHeaders(t *testing.T) {
	r := newEngine(SecurityHeaders())

	w := get(r, "/", nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Permissions-Policy"), "geolocation=(self)")
	assert.Empty(t, w.Header().Get("Cache-Control"), "public menu responses may be cached")
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	w = get(r, "/", map[string]string{"Authorization": "Bearer x", "X-Forwarded-Proto": "https"})
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}
