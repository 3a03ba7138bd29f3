package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/junkeats-app/services"
	"github.com/yeremiapane/junkeats-app/utils"
)

type ReceiptController struct {
	Orders *services.OrderService
}

func NewReceiptController(orders *services.OrderService) *ReceiptController {
	return &ReceiptController{Orders: orders}
}

// DownloadReceipt renders the order's PDF receipt.
func (rc *ReceiptController) DownloadReceipt(c *gin.Context) {
	order, err := rc.Orders.Get(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	pdf, err := services.RenderReceipt(order)
	if err != nil {
		utils.ErrorLogger.Printf("Receipt for order %s failed: %v", order.ID, err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	filename := strings.ReplaceAll(services.ReceiptNumber(order), "/", "-") + ".pdf"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
