package controllers

import (
	"inkwell/models"
	"inkwell/services"
	"inkwell/utils"

	"github.com/gin-gonic/gin"
)

// UserController serves the admin user-management routes.
type UserController struct {
	userService *services.UserService
}

func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// GetUsers godoc
// @Summary      List users
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   models.User
// @Router       /admin/users [get]
func (uc *UserController) GetUsers(c *gin.Context) {
	users, err := uc.userService.GetAllUsers(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, users)
}

// GetUser godoc
// @Summary      User detail with posts and profile completion
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  services.UserDetail
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /admin/users/{id} [get]
func (uc *UserController) GetUser(c *gin.Context) {
	id, err := parseID(c, "id", "user")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	detail, err := uc.userService.GetUserDetail(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, detail)
}

// UpdateUser godoc
// @Summary      Edit a user
// @Tags         Admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      int                            true  "User ID"
// @Param        body  body      models.AdminUpdateUserRequest  true  "Fields"
// @Success      200   {object}  models.User
// @Router       /admin/users/{id} [put]
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, err := parseID(c, "id", "user")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var req models.AdminUpdateUserRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.RespondError(c, err)
		return
	}

	user, err := uc.userService.AdminUpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, user)
}

// DeleteUser godoc
// @Summary      Delete a non-admin user and their posts
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  utils.ErrorResponse
// @Failure      403  {object}  utils.ErrorResponse
// @Router       /admin/users/{id} [delete]
func (uc *UserController) DeleteUser(c *gin.Context) {
	id, err := parseID(c, "id", "user")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if err := uc.userService.DeleteUser(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, utils.ErrorResponse{Message: "User deleted successfully"})
}
