package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/junkeats-app/models"
	"github.com/yeremiapane/junkeats-app/utils"
	"gorm.io/gorm"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// GetAllTables lists tables, optionally only those with ?status=.
func (tc *TableController) GetAllTables(c *gin.Context) {
	q := tc.DB.Order("table_number")
	if status := c.Query("status"); status != "" {
		switch status {
		case models.TableAvailable, models.TableReserved, models.TableOccupied:
			q = q.Where("status = ?", status)
		default:
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown table status %q", status))
			return
		}
	}

	var tables []models.Table
	if err := q.Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All tables", tables)
}
