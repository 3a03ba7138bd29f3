package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/junkeats-app/services"
	"github.com/yeremiapane/junkeats-app/utils"
)

type SuggestionController struct {
	Suggester *services.ComboSuggester
}

func NewSuggestionController(suggester *services.ComboSuggester) *SuggestionController {
	return &SuggestionController{Suggester: suggester}
}

// SuggestCombo accepts an optional body; an empty one uses the default
// history and preferences.
func (sc *SuggestionController) SuggestCombo(c *gin.Context) {
	var req services.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	combo, err := sc.Suggester.Suggest(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Here's your combo!", combo)
}
