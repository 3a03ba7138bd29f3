package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/junkeats-app/middlewares"
	"github.com/yeremiapane/junkeats-app/services"
	"github.com/yeremiapane/junkeats-app/utils"
)

const dashboardRoute = "/dashboard"

func sessionID(c *gin.Context) string {
	return c.GetString(middlewares.ContextSessionID)
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid "+name))
		return 0, false
	}
	return uint(id), true
}

// respondServiceError maps service errors to HTTP responses.
func respondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	var serr *services.SuggestionError

	switch {
	case errors.As(err, &verr):
		utils.RespondValidation(c, http.StatusUnprocessableEntity, "Please fix the highlighted fields.", verr.Fields)
	case errors.As(err, &serr):
		code := http.StatusBadGateway
		if errors.Is(err, services.ErrSuggesterDisabled) {
			code = http.StatusServiceUnavailable
		}
		utils.RespondError(c, code, serr)
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrNoLatestOrder),
		errors.Is(err, services.ErrNotDelivery),
		errors.Is(err, services.ErrNotReservation):
		utils.RespondRedirect(c, http.StatusConflict, err, dashboardRoute)
	case errors.Is(err, services.ErrReservationClosed),
		errors.Is(err, services.ErrEmailTaken):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrItemNotInCart):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidQuantity):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrLocationRequired):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondError(c, http.StatusUnauthorized, err)
	default:
		utils.ErrorLogger.Printf("Unhandled error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("something went wrong"))
	}
}
