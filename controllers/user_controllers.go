package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/junkeats-app/middlewares"
	"github.com/yeremiapane/junkeats-app/services"
	"github.com/yeremiapane/junkeats-app/utils"
)

type UserController struct {
	Auth  *services.AuthService
	Carts *services.CartStore
}

func NewUserController(auth *services.AuthService, carts *services.CartStore) *UserController {
	return &UserController{Auth: auth, Carts: carts}
}

func (uc *UserController) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.Auth.Register(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"user_id": user.ID,
	})
}

// Login needs a location; without one the client gets a 403 and the
// message to show.
func (uc *UserController) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res, err := uc.Auth.Login(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Login Successful!", res)
}

// Logout revokes the bearer token until it would have expired anyway and
// drops the session cart.
func (uc *UserController) Logout(c *gin.Context) {
	token := c.GetString(middlewares.ContextToken)
	if token == "" {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("not logged in"))
		return
	}

	until := time.Now().Add(24 * time.Hour)
	if exp, ok := c.Get(middlewares.ContextTokenExpiry); ok {
		until = exp.(time.Time)
	}
	utils.BlacklistToken(token, until)
	uc.Carts.Clear(sessionID(c), true)

	utils.InfoLogger.Printf("Session %s logged out", sessionID(c))
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

func (uc *UserController) GetProfile(c *gin.Context) {
	profile, err := uc.Auth.Profile(sessionID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile", profile)
}
