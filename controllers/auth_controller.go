package controllers

import (
	"net/http"

	"inkwell/middleware"
	"inkwell/models"
	"inkwell/services"
	"inkwell/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	userService  *services.UserService
	tokens       *utils.TokenManager
	secureCookie bool
}

func NewAuthController(userService *services.UserService, tokens *utils.TokenManager, secureCookie bool) *AuthController {
	return &AuthController{
		userService:  userService,
		tokens:       tokens,
		secureCookie: secureCookie,
	}
}

type AuthResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
	Token   string       `json:"token"`
}

// Register godoc
// @Summary      Register an author account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.CreateUserRequest  true  "Account"
// @Success      201   {object}  AuthResponse
// @Failure      400   {object}  utils.ErrorResponse
// @Router       /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req models.CreateUserRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.RespondError(c, err)
		return
	}

	user, err := ac.userService.CreateUser(c.Request.Context(), &req, models.RoleAuthor)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	ac.issue(c, http.StatusCreated, "User created successfully", user)
}

// Login godoc
// @Summary      Log in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.LoginRequest  true  "Credentials"
// @Success      200   {object}  AuthResponse
// @Failure      401   {object}  utils.ErrorResponse
// @Failure      403   {object}  utils.ErrorResponse
// @Failure      429   {object}  utils.ErrorResponse
// @Router       /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.RespondError(c, err)
		return
	}

	user, err := ac.userService.Authenticate(c.Request.Context(), &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	ac.issue(c, http.StatusOK, "Login successful", user)
}

// Logout godoc
// @Summary      Log out
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  utils.ErrorResponse
// @Router       /auth/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.TokenCookie, "", -1, "/", "", ac.secureCookie, true)
	c.JSON(http.StatusOK, utils.ErrorResponse{Message: "Logged out"})
}

// Me godoc
// @Summary      Current principal
// @Tags         Auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  models.User
// @Failure      401  {object}  utils.ErrorResponse
// @Router       /auth/me [get]
func (ac *AuthController) Me(c *gin.Context) {
	utils.RespondOK(c, middleware.CurrentUser(c))
}

func (ac *AuthController) issue(c *gin.Context, status int, message string, user *models.User) {
	token, err := ac.tokens.Generate(user)
	if err != nil {
		utils.RespondError(c, utils.Internal(err))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.TokenCookie, token, int(ac.tokens.TTL().Seconds()), "/", "", ac.secureCookie, true)
	c.JSON(status, AuthResponse{
		Message: message,
		User:    user,
		Token:   token,
	})
}
