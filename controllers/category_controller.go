package controllers

import (
	"net/http"

	"inkwell/models"
	"inkwell/services"
	"inkwell/utils"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

// GetCategories godoc
// @Summary      Categories with published post counts
// @Tags         Categories
// @Produce      json
// @Success      200  {array}  models.CategoryFacet
// @Router       /categories [get]
func (cc *CategoryController) GetCategories(c *gin.Context) {
	facets, err := cc.categories.ListWithCounts(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, facets)
}

// CreateCategory godoc
// @Summary      Create a category
// @Tags         Admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      models.CategoryInput  true  "Category"
// @Success      201   {object}  models.Category
// @Router       /admin/categories [post]
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var input models.CategoryInput
	if err := utils.BindJSON(c, &input); err != nil {
		utils.RespondError(c, err)
		return
	}

	category, err := cc.categories.Create(c.Request.Context(), &input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary      Update a category
// @Tags         Admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      int                   true  "Category ID"
// @Param        body  body      models.CategoryInput  true  "Category"
// @Success      200   {object}  models.Category
// @Router       /admin/categories/{id} [put]
func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	id, err := parseID(c, "id", "category")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var input models.CategoryInput
	if err := utils.BindJSON(c, &input); err != nil {
		utils.RespondError(c, err)
		return
	}

	category, err := cc.categories.Update(c.Request.Context(), id, &input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, category)
}

// DeleteCategory godoc
// @Summary      Delete a category
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Category ID"
// @Success      200  {object}  utils.ErrorResponse
// @Router       /admin/categories/{id} [delete]
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id, err := parseID(c, "id", "category")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if err := cc.categories.Delete(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, utils.ErrorResponse{Message: "Category deleted successfully"})
}
