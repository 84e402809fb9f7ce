package controllers

import (
	"inkwell/services"
	"inkwell/utils"

	"github.com/gin-gonic/gin"
)

type TagController struct {
	tags *services.TagService
}

func NewTagController(tags *services.TagService) *TagController {
	return &TagController{tags: tags}
}

type RenameTagRequest struct {
	NewName string `json:"newName" binding:"required,max=100"`
}

type TagUpdateResponse struct {
	Message      string `json:"message"`
	UpdatedPosts int64  `json:"updatedPosts"`
}

// GetTags godoc
// @Summary      Tags with usage counts
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  models.TagCount
// @Router       /admin/tags [get]
func (tc *TagController) GetTags(c *gin.Context) {
	tags, err := tc.tags.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, tags)
}

// RenameTag godoc
// @Summary      Rename a tag on every post
// @Tags         Admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        name  path      string            true  "Current tag name"
// @Param        body  body      RenameTagRequest  true  "New name"
// @Success      200   {object}  TagUpdateResponse
// @Failure      404   {object}  utils.ErrorResponse
// @Router       /admin/tags/{name} [patch]
func (tc *TagController) RenameTag(c *gin.Context) {
	var req RenameTagRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.RespondError(c, err)
		return
	}

	updated, err := tc.tags.Rename(c.Request.Context(), c.Param("name"), req.NewName)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, TagUpdateResponse{Message: "Tag renamed successfully", UpdatedPosts: updated})
}

// DeleteTag godoc
// @Summary      Remove a tag from every post
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Param        name  path      string  true  "Tag name"
// @Success      200   {object}  TagUpdateResponse
// @Failure      404   {object}  utils.ErrorResponse
// @Router       /admin/tags/{name} [delete]
func (tc *TagController) DeleteTag(c *gin.Context) {
	updated, err := tc.tags.Delete(c.Request.Context(), c.Param("name"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, TagUpdateResponse{Message: "Tag deleted successfully", UpdatedPosts: updated})
}
