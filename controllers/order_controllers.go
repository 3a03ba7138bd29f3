package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/junkeats-app/services"
	"github.com/yeremiapane/junkeats-app/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// GetOrderHistory settles overdue deliveries before listing.
func (oc *OrderController) GetOrderHistory(c *gin.Context) {
	history, err := oc.Orders.History(c.Request.Context(), sessionID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order history", history)
}

func (oc *OrderController) GetLatestOrder(c *gin.Context) {
	order, err := oc.Orders.Latest(c.Request.Context(), sessionID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Latest order", order)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	order, err := oc.Orders.Get(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

func (oc *OrderController) TrackOrder(c *gin.Context) {
	view, err := oc.Orders.Track(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order tracking", view)
}

func (oc *OrderController) TrackLatestOrder(c *gin.Context) {
	view, err := oc.Orders.TrackLatest(c.Request.Context(), sessionID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order tracking", view)
}
