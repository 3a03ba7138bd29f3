package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/junkeats-app/live"
	"github.com/yeremiapane/junkeats-app/services"
	"github.com/yeremiapane/junkeats-app/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type LiveController struct {
	Hub      *live.Hub
	Orders   *services.OrderService
	Interval time.Duration
}

func NewLiveController(hub *live.Hub, orders *services.OrderService, interval time.Duration) *LiveController {
	if interval <= 0 {
		interval = time.Second
	}
	return &LiveController{Hub: hub, Orders: orders, Interval: interval}
}

// Connect registers the socket for the session's notifications and order
// updates until the client goes away.
func (lc *LiveController) Connect(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	lc.Hub.Register(ws, sessionID(c))
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	lc.Hub.Unregister(ws)
}

// TrackOrder streams the tracking view of one delivery order every
// interval. The stream ends once the order is delivered or the client
// disconnects.
func (lc *LiveController) TrackOrder(c *gin.Context) {
	sid, orderID := sessionID(c), c.Param("id")

	// fail before upgrading so the client gets a normal error response
	first, err := lc.Orders.Track(c.Request.Context(), sid, orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer ws.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(lc.Interval)
	defer ticker.Stop()

	view := first
	for {
		if err := ws.WriteJSON(live.Message{Event: live.EventTracking, Data: view}); err != nil {
			return
		}
		if view.Delivered {
			_ = ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "delivered"))
			return
		}

		select {
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
		}

		view, err = lc.Orders.Track(c.Request.Context(), sid, orderID)
		if err != nil {
			utils.ErrorLogger.Printf("Tracking stream for order %s stopped: %v", orderID, err)
			return
		}
	}
}
