package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/junkeats-app/services"
	"github.com/yeremiapane/junkeats-app/utils"
)

type CartController struct {
	Carts   *services.CartStore
	Catalog *services.Catalog
}

func NewCartController(carts *services.CartStore, catalog *services.Catalog) *CartController {
	return &CartController{Carts: carts, Catalog: catalog}
}

func (cc *CartController) GetCart(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Cart", cc.Carts.Get(sessionID(c)))
}

func (cc *CartController) AddItem(c *gin.Context) {
	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"min=0,max=99"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := cc.Catalog.Get(req.ProductID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	cart, err := cc.Carts.Add(sessionID(c), *product, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Added to cart!", cart)
}

// AddItems adds one of each listed product, e.g. a suggested combo.
func (cc *CartController) AddItems(c *gin.Context) {
	var req struct {
		ProductIDs []uint `json:"product_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	products, err := cc.Catalog.GetMany(req.ProductIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	cart, err := cc.Carts.AddMultiple(sessionID(c), products)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Combo added!", cart)
}

// UpdateQuantity sets a line's quantity; zero or less removes it.
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	id, ok := parseID(c, "product_id")
	if !ok {
		return
	}
	var req struct {
		Quantity *int `json:"quantity" binding:"required,max=99"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	cart, err := cc.Carts.SetQuantity(sessionID(c), id, *req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart updated", cart)
}

func (cc *CartController) RemoveItem(c *gin.Context) {
	id, ok := parseID(c, "product_id")
	if !ok {
		return
	}
	cart, err := cc.Carts.Remove(sessionID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item removed", cart)
}

func (cc *CartController) ClearCart(c *gin.Context) {
	sid := sessionID(c)
	cc.Carts.Clear(sid, false)
	utils.RespondJSON(c, http.StatusOK, "Cart cleared", cc.Carts.Get(sid))
}
