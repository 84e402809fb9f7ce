package controllers

import (
	"inkwell/middleware"
	"inkwell/models"
	"inkwell/services"
	"inkwell/utils"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	userService *services.UserService
	queries     *services.PostQueryService
}

func NewProfileController(userService *services.UserService, queries *services.PostQueryService) *ProfileController {
	return &ProfileController{userService: userService, queries: queries}
}

// GetProfile godoc
// @Summary      Own profile
// @Tags         Profile
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  models.User
// @Router       /profile [get]
func (pc *ProfileController) GetProfile(c *gin.Context) {
	utils.RespondOK(c, middleware.CurrentUser(c))
}

// UpdateProfile godoc
// @Summary      Edit own profile
// @Tags         Profile
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      models.UpdateProfileRequest  true  "Fields"
// @Success      200   {object}  models.User
// @Failure      400   {object}  utils.ErrorResponse
// @Router       /profile [put]
func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.RespondError(c, err)
		return
	}

	user, err := pc.userService.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c).ID, &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, user)
}

// GetOwnPosts godoc
// @Summary      Own posts in any status
// @Tags         Profile
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "draft or published"
// @Param        page    query     int     false  "Page"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  services.ListingResult
// @Router       /profile/posts [get]
func (pc *ProfileController) GetOwnPosts(c *gin.Context) {
	q := services.ParsePostQuery(c.Request.URL.Query(), services.AuthorProfile)
	result, err := pc.queries.ListByAuthor(c.Request.Context(), middleware.CurrentUser(c).ID, q)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, result)
}
