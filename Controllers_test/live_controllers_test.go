package Controllers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/junkeats-app/live"
	"github.com/yeremiapane/junkeats-app/models"
)

func TestTrackingStreamEndsOnDelivery(t *testing.T) {
	app := newTestApp(t, nil)
	app.deps.Config.Orders.TrackingInterval = 10 * time.Millisecond
	app.deps.Orders.Now = time.Now
	app.deps.Checkout.Now = time.Now
	app.deps.Orders.Timeline.Total = 60 * time.Millisecond

	token := app.login("stream@example.com")
	order := placeDelivery(t, app, token)

	// rebuild so the shorter tracking interval is picked up
	srv := httptest.NewServer(routerFor(app))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/orders/" + order.ID + "/track?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var statuses []string
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg struct {
			Event string       `json:"event"`
			Data  trackingBody `json:"data"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), err.Error())
			break
		}
		assert.Equal(t, live.EventTracking, msg.Event)
		statuses = append(statuses, msg.Data.Status)
	}

	require.NotEmpty(t, statuses)
	assert.Equal(t, models.StatusDelivered, statuses[len(statuses)-1])
}

func TestTrackingStreamRejectsUnknownOrder(t *testing.T) {
	app := newTestApp(t, nil)
	token := app.login("nostream@example.com")

	srv := httptest.NewServer(app.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/orders/missing/track?token=" + token
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionSocketReceivesNotifications(t *testing.T) {
	app := newTestApp(t, nil)
	hub := live.NewHub()
	app.deps.Hub = hub
	app.deps.Notifications.Hub = hub

	token := app.login("socket@example.com")
	srv := httptest.NewServer(routerFor(app))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	app.addToCart(token, "Cola", 1)

	var msg struct {
		Event string              `json:"event"`
		Data  models.Notification `json:"data"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, live.EventNotification, msg.Event)
	assert.Equal(t, "Added to cart!", msg.Data.Title)
}

func TestSessionSocketReceivesCartUpdates(t *testing.T) {
	app := newTestApp(t, nil)
	hub := live.NewHub()
	app.deps.Hub = hub
	app.deps.Carts.Hub = hub

	token := app.login("cartsync@example.com")
	srv := httptest.NewServer(routerFor(app))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	app.addToCart(token, "Cola", 2)

	var msg struct {
		Event string   `json:"event"`
		Data  cartBody `json:"data"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, live.EventCartUpdate, msg.Event)
	assert.Equal(t, 2, msg.Data.Count)
	assert.Equal(t, "3.98", msg.Data.Total)
}
