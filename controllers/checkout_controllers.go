package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/junkeats-app/services"
	"github.com/yeremiapane/junkeats-app/utils"
)

type CheckoutController struct {
	Checkout *services.CheckoutService
}

func NewCheckoutController(checkout *services.CheckoutService) *CheckoutController {
	return &CheckoutController{Checkout: checkout}
}

// GetQuote prices the cart for ?order_type= without placing an order.
func (cc *CheckoutController) GetQuote(c *gin.Context) {
	quote, err := cc.Checkout.Quote(sessionID(c), c.Query("order_type"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order summary", quote)
}

func (cc *CheckoutController) PlaceOrder(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	placed, err := cc.Checkout.PlaceOrder(c.Request.Context(), sessionID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Order Placed!"
	if placed.Order.IsDineIn() {
		message = "Table Reserved!"
	}
	utils.RespondJSON(c, http.StatusCreated, message, placed)
}
