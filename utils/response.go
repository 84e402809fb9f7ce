package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// RespondError writes the error envelope. Anything that is not an AppError is
// logged and reported as a generic server error.
func RespondError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Internal(err)
	}
	if appErr.Kind == KindServer {
		log.Printf("[%s %s] internal error: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(appErr.Status(), ErrorResponse{
		Message: appErr.Message,
		Errors:  appErr.Fields,
	})
}

func RespondMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message})
}

func RespondOK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}
