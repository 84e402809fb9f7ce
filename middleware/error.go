package middleware

import (
	"fmt"
	"log"

	"inkwell/utils"

	"github.com/gin-gonic/gin"
)

// ErrorHandler turns panics into the standard 500 envelope.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("[%s %s] panic recovered: %v", c.Request.Method, c.Request.URL.Path, recovered)
		utils.RespondError(c, utils.Internal(fmt.Errorf("panic: %v", recovered)))
	})
}
