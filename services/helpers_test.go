package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/junkeats-app/database"
	"github.com/yeremiapane/junkeats-app/events"
	"github.com/yeremiapane/junkeats-app/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Setup(db, []string{"T1", "T2"}))
	return db
}

type recordedToast struct {
	SessionID string
	Toast
}

type toastRecorder struct {
	mu     sync.Mutex
	toasts []recordedToast
}

func (r *toastRecorder) Notify(sessionID string, toast Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, recordedToast{SessionID: sessionID, Toast: toast})
}

func (r *toastRecorder) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.toasts))
	for _, t := range r.toasts {
		out = append(out, t.Title)
	}
	return out
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) Publish(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *eventRecorder) Close() error { return nil }

func (r *eventRecorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type+":"+e.Status)
	}
	return out
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func mustProduct(t *testing.T, db *gorm.DB, name string) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, db.Where("name = ?", name).First(&p).Error)
	return p
}

// fixture wires the checkout, order and reservation services together
// on one database and clock.
type fixture struct {
	db           *gorm.DB
	clock        *testClock
	toasts       *toastRecorder
	events       *eventRecorder
	carts        *CartStore
	sessions     *SessionStore
	checkout     *CheckoutService
	orders       *OrderService
	reservations *ReservationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	f := &fixture{
		db:     db,
		clock:  newTestClock(),
		toasts: &toastRecorder{},
		events: &eventRecorder{},
	}
	f.sessions = NewSessionStore(db)
	f.carts = NewCartStore(f.toasts, nil)

	f.checkout = NewCheckoutService(db, f.carts, f.sessions, DefaultPricing())
	f.checkout.Now = f.clock.Now
	f.checkout.Publisher = f.events

	f.orders = NewOrderService(db, f.sessions, DeliveryTimeline{Total: 20 * time.Second})
	f.orders.Now = f.clock.Now
	f.orders.Publisher = f.events

	f.reservations = NewReservationService(db, f.orders, f.sessions, time.Hour)
	f.reservations.Now = f.clock.Now
	f.reservations.Notifier = f.toasts
	f.reservations.Publisher = f.events
	return f
}

func (f *fixture) place(t *testing.T, sessionID string, req CheckoutRequest) *models.Order {
	t.Helper()
	if len(f.carts.Items(sessionID)) == 0 {
		_, err := f.carts.Add(sessionID, mustProduct(t, f.db, "Cheeseburger Deluxe"), 1)
		require.NoError(t, err)
	}
	placed, err := f.checkout.PlaceOrder(context.Background(), sessionID, req)
	require.NoError(t, err)
	return placed.Order
}

func deliveryRequest() CheckoutRequest {
	return CheckoutRequest{
		OrderType:     models.OrderTypeDelivery,
		PaymentMethod: models.PaymentCard,
		Name:          "Asha Rao",
		Address:       "12 MG Road",
		City:          "Pune",
		Zip:           "411001",
	}
}

func dineInRequest(table string) CheckoutRequest {
	return CheckoutRequest{
		OrderType:     models.OrderTypeDineIn,
		PaymentMethod: models.PaymentUPI,
		TableNumber:   table,
	}
}
