package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginWithoutLocationIsForbidden(t *testing.T) {
	app := newTestApp(t, nil)

	w, env := app.do("POST", "/login", "", map[string]interface{}{
		"name":     "Asha Rao",
		"email":    "asha@example.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Please enable your location to continue.", env.Message)
}

func TestLoginProfileLogout(t *testing.T) {
	app := newTestApp(t, nil)
	token := app.login("asha@example.com")

	w, env := app.do("GET", "/profile", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var profile struct {
		Name          string `json:"name"`
		ContactNumber string `json:"contact_number"`
		Email         string `json:"email"`
	}
	decode(t, env, &profile)
	assert.Equal(t, "Asha Rao", profile.Name)
	assert.Equal(t, "asha@example.com", profile.Email)

	app.addToCart(token, "Cola", 2)
	sid := app.sessionOf(token)
	assert.Equal(t, 2, app.deps.Carts.Count(sid))

	w, _ = app.do("POST", "/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, app.deps.Carts.Count(sid))

	w, _ = app.do("GET", "/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister(t *testing.T) {
	app := newTestApp(t, nil)
	body := map[string]string{"name": "Ravi", "email": "ravi@example.com", "password": "secret1"}

	w, env := app.do("POST", "/register", "", body)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User registered", env.Message)

	w, _ = app.do("POST", "/register", "", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = app.do("POST", "/register", "", map[string]string{"email": "bad"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionRoutesNeedToken(t *testing.T) {
	app := newTestApp(t, nil)
	for _, path := range []string{"/cart", "/orders", "/profile", "/notifications"} {
		w, _ := app.do("GET", path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}
