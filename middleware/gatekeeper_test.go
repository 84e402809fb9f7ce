package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell/models"
	"inkwell/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatekeeperRouter(tokens *utils.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Gatekeeper(tokens))
	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusOK, "passed")
	})
	return r
}

func TestGatekeeper(t *testing.T) {
	tokens := utils.NewTokenManager("secret", time.Hour)
	r := gatekeeperRouter(tokens)

	token := func(role models.Role) string {
		tok, err := tokens.Generate(&models.User{ID: 1, Role: role})
		require.NoError(t, err)
		return tok
	}
	expired, err := utils.NewTokenManager("secret", -time.Minute).Generate(&models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name     string
		path     string
		token    string
		accept   string
		status   int
		location string
	}{
		{"public page", "/blog/hello", "", "", http.StatusOK, ""},
		{"prefix lookalike", "/administrator", "", "", http.StatusOK, ""},
		{"api from browser", "/api/posts", "", "text/html,application/xhtml+xml", http.StatusForbidden, ""},
		{"api from client", "/api/posts", "", "application/json", http.StatusOK, ""},
		{"api from browser mixed case", "/api/posts", "", "Text/HTML;q=0.9", http.StatusForbidden, ""},
		{"admin anonymous", "/admin/users", "", "", http.StatusTemporaryRedirect, "/login"},
		{"profile anonymous", "/profile", "", "", http.StatusTemporaryRedirect, "/login"},
		{"login anonymous", "/login", "", "", http.StatusOK, ""},
		{"admin expired", "/admin/users", expired, "", http.StatusTemporaryRedirect, "/login"},
		{"login expired", "/login", expired, "", http.StatusOK, ""},
		{"login admin", "/login", token(models.RoleAdmin), "", http.StatusTemporaryRedirect, "/admin/dashboard"},
		{"login author", "/login", token(models.RoleAuthor), "", http.StatusTemporaryRedirect, "/profile"},
		{"login user", "/login", token(models.RoleUser), "", http.StatusOK, ""},
		{"bare admin", "/admin", token(models.RoleAdmin), "", http.StatusTemporaryRedirect, "/admin/dashboard"},
		{"admin page", "/admin/users", token(models.RoleAdmin), "", http.StatusOK, ""},
		{"admin trailing slash", "/admin/", token(models.RoleAdmin), "", http.StatusTemporaryRedirect, "/admin/dashboard"},
		{"admin as user", "/admin/dashboard", token(models.RoleUser), "", http.StatusTemporaryRedirect, "/login"},
		{"admin as author", "/admin/users", token(models.RoleAuthor), "", http.StatusTemporaryRedirect, "/login"},
		{"profile as author", "/profile/edit", token(models.RoleAuthor), "", http.StatusOK, ""},
		{"profile as admin", "/profile", token(models.RoleAdmin), "", http.StatusTemporaryRedirect, "/login"},
		{"profile as user", "/profile", token(models.RoleUser), "", http.StatusTemporaryRedirect, "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: utils.TokenCookie, Value: tt.token})
			}
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}
}

func TestPageRolesAgreeWithHomes(t *testing.T) {
	for _, role := range []models.Role{models.RoleAdmin, models.RoleAuthor} {
		roles, guarded := allowedRoles(role.Home())
		require.True(t, guarded, role)
		assert.True(t, role.In(roles...), role)
	}

	_, guarded := allowedRoles("/blog/post")
	assert.False(t, guarded)
}
