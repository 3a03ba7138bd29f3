package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/yeremiapane/junkeats-app/config"
	"github.com/yeremiapane/junkeats-app/database"
	"github.com/yeremiapane/junkeats-app/models"
	"github.com/yeremiapane/junkeats-app/router"
	"github.com/yeremiapane/junkeats-app/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Status   bool              `json:"status"`
	Message  string            `json:"message"`
	Data     json.RawMessage   `json:"data"`
	Errors   map[string]string `json:"errors"`
	Redirect string            `json:"redirect"`
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testApp struct {
	t      *testing.T
	db     *gorm.DB
	deps   *router.Deps
	router *gin.Engine
	clock  *clock
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:ctrl_"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Setup(db, []string{"T1", "T2", "T3"}))
	return db
}

// newTestApp wires the full router on an in-memory database. Time driven
// services share a fake clock.
func newTestApp(t *testing.T, model llms.Model) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.RateLimit.RequestsPerSecond = 0
	cfg.RateLimit.LoginPerMinute = 1000
	cfg.RateLimit.SuggestPerMinute = 1000
	cfg.Server.AllowedOrigins = []string{"*"}

	db := setupTestDB(t)
	deps := router.Wire(cfg, db, model, nil, nil, nil)

	clk := &clock{now: time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)}
	deps.Checkout.Now = clk.Now
	deps.Orders.Now = clk.Now
	deps.Reservations.Now = clk.Now

	return &testApp{t: t, db: db, deps: deps, router: router.SetupRouter(deps), clock: clk}
}

// routerFor rebuilds the router after deps were changed by a test.
func routerFor(a *testApp) *gin.Engine {
	a.router = router.SetupRouter(a.deps)
	return a.router
}

func (a *testApp) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (a *testApp) login(email string) string {
	a.t.Helper()
	w, env := a.do("POST", "/login", "", map[string]interface{}{
		"name":           "Asha Rao",
		"contact_number": "9876543210",
		"email":          email,
		"password":       "secret1",
		"location":       map[string]float64{"latitude": 18.52, "longitude": 73.85},
	})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &res))
	return res.Token
}

func (a *testApp) productID(name string) uint {
	a.t.Helper()
	var p models.Product
	require.NoError(a.t, a.db.Where("name = ?", name).First(&p).Error)
	return p.ID
}

func (a *testApp) sessionOf(token string) string {
	a.t.Helper()
	claims, err := utils.ParseToken(token)
	require.NoError(a.t, err)
	return claims.SessionID
}

func (a *testApp) addToCart(token, name string, qty int) {
	a.t.Helper()
	w, _ := a.do("POST", "/cart/items", token, map[string]interface{}{
		"product_id": a.productID(name),
		"quantity":   qty,
	})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
}

func decode(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}
