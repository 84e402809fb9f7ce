package middleware

import (
	"net/http"
	"strings"

	"inkwell/models"
	"inkwell/utils"

	"github.com/gin-gonic/gin"
)

const loginPath = "/login"

// pageRoles lists the roles allowed into each guarded page prefix.
var pageRoles = []struct {
	prefix string
	roles  []models.Role
}{
	{"/admin", []models.Role{models.RoleAdmin}},
	{"/profile", []models.Role{models.RoleAuthor}},
}

func allowedRoles(path string) ([]models.Role, bool) {
	for _, p := range pageRoles {
		if matches(path, p.prefix) {
			return p.roles, true
		}
	}
	return nil, false
}

func matches(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Gatekeeper guards the page routes. It only inspects /admin, /profile, /api
// and /login; everything else is left alone. API authorization proper is the
// job of RequireRoles.
func Gatekeeper(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		roles, guarded := allowedRoles(path)

		switch {
		case matches(path, "/api"):
			if strings.Contains(strings.ToLower(c.GetHeader("Accept")), "text/html") {
				utils.RespondMessage(c, http.StatusForbidden, "API routes cannot be accessed directly from the browser")
				return
			}
			c.Next()
			return
		case guarded, path == loginPath:
		default:
			c.Next()
			return
		}

		claims, err := tokens.Resolve(c.Request)
		if err != nil {
			if path == loginPath {
				c.Next()
				return
			}
			redirect(c, loginPath)
			return
		}

		if path == loginPath {
			if home := claims.Role.Home(); home != "" {
				redirect(c, home)
				return
			}
			c.Next()
			return
		}

		if !claims.Role.In(roles...) {
			redirect(c, loginPath)
			return
		}
		if path == "/admin" || path == "/admin/" {
			redirect(c, models.RoleAdmin.Home())
			return
		}
		c.Next()
	}
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusTemporaryRedirect, location)
	c.Abort()
}
