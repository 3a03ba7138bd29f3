package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/junkeats-app/services"
	"github.com/yeremiapane/junkeats-app/utils"
)

type ReservationController struct {
	Reservations *services.ReservationService
}

func NewReservationController(reservations *services.ReservationService) *ReservationController {
	return &ReservationController{Reservations: reservations}
}

// GetLatestReservation backs the reservation-confirmed page countdown.
func (rc *ReservationController) GetLatestReservation(c *gin.Context) {
	view, err := rc.Reservations.Latest(c.Request.Context(), sessionID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation", view)
}

func (rc *ReservationController) CheckIn(c *gin.Context) {
	view, err := rc.Reservations.CheckIn(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Check-in Successful!", view)
}

func (rc *ReservationController) Cancel(c *gin.Context) {
	view, err := rc.Reservations.Cancel(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation Cancelled", view)
}
