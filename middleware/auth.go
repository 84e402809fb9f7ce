package middleware

import (
	"inkwell/models"
	"inkwell/services"
	"inkwell/utils"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "current_user"

// RequireRoles runs the access policy and aborts with its error envelope
// when the caller is not allowed. The live user is stored for handlers.
func RequireRoles(policy *services.AccessPolicy, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := policy.Authorize(c.Request, roles...)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// OptionalUser attaches the caller when a valid credential for an unlocked
// account is present and carries on anonymously otherwise.
func OptionalUser(policy *services.AccessPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.TokenFromRequest(c.Request) != "" {
			if user, err := policy.Authorize(c.Request, services.AllRoles...); err == nil {
				c.Set(currentUserKey, user)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireRoles or OptionalUser.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}
