package utils

import (
	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status   bool              `json:"status"`
	Message  string            `json:"message"`
	Data     interface{}       `json:"data,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
	})
}

// RespondValidation reports field scoped errors.
func RespondValidation(c *gin.Context, code int, message string, fields map[string]string) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: message,
		Errors:  fields,
	})
}

// RespondRedirect tells the client to navigate away, e.g. back to the
// dashboard when the session has nothing to show.
func RespondRedirect(c *gin.Context, code int, err error, to string) {
	c.JSON(code, JSONResponse{
		Status:   false,
		Message:  err.Error(),
		Redirect: to,
	})
}
