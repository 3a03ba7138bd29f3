package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/junkeats-app/services"
	"github.com/yeremiapane/junkeats-app/utils"
)

type MenuController struct {
	Catalog *services.Catalog
}

func NewMenuController(catalog *services.Catalog) *MenuController {
	return &MenuController{Catalog: catalog}
}

// GetAllProducts lists the menu, optionally filtered with ?category=.
func (mc *MenuController) GetAllProducts(c *gin.Context) {
	products, err := mc.Catalog.List(c.Query("category"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All products", products)
}

func (mc *MenuController) GetBestsellers(c *gin.Context) {
	products, err := mc.Catalog.Bestsellers()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bestsellers", products)
}

func (mc *MenuController) GetProductByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	product, err := mc.Catalog.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product detail", product)
}

func (mc *MenuController) GetCategories(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "All categories", mc.Catalog.Categories())
}
