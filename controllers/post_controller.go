package controllers

import (
	"net/http"

	"inkwell/middleware"
	"inkwell/models"
	"inkwell/services"
	"inkwell/utils"

	"github.com/gin-gonic/gin"
)

type PostController struct {
	posts   *services.PostService
	queries *services.PostQueryService
}

func NewPostController(posts *services.PostService, queries *services.PostQueryService) *PostController {
	return &PostController{posts: posts, queries: queries}
}

type LikeResponse struct {
	Liked     bool   `json:"liked"`
	LikeCount int64  `json:"likeCount"`
	Likes     []uint `json:"likes"`
}

// GetPosts godoc
// @Summary      List published posts
// @Tags         Posts
// @Produce      json
// @Param        category  query     string  false  "Category slug or all"
// @Param        search    query     string  false  "Literal substring"
// @Param        tags      query     string  false  "Comma separated tags"
// @Param        sort      query     string  false  "newest, oldest, popular, trending or readTime"
// @Param        page      query     int     false  "Page"
// @Param        limit     query     int     false  "Page size"
// @Success      200       {object}  services.ListingResult
// @Router       /posts [get]
func (pc *PostController) GetPosts(c *gin.Context) {
	q := services.ParsePostQuery(c.Request.URL.Query(), services.ListingProfile)
	result, err := pc.queries.List(c.Request.Context(), q)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, result)
}

// Search godoc
// @Summary      Faceted search over published posts
// @Tags         Posts
// @Produce      json
// @Param        q             query     string  false  "Literal substring"
// @Param        category      query     string  false  "Category slug"
// @Param        tags          query     string  false  "Comma separated tags"
// @Param        sortBy        query     string  false  "Sort order"
// @Param        timeRange     query     string  false  "today, week, month or year"
// @Param        minReadTime   query     int     false  "Minimum minutes"
// @Param        maxReadTime   query     int     false  "Maximum minutes"
// @Param        contentType   query     string  false  "Content type"
// @Param        featuredOnly  query     bool    false  "Featured only"
// @Success      200           {object}  services.SearchResult
// @Router       /search [get]
func (pc *PostController) Search(c *gin.Context) {
	q := services.ParsePostQuery(c.Request.URL.Query(), services.SearchProfile)
	result, err := pc.queries.Search(c.Request.Context(), q)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, result)
}

// CreatePost godoc
// @Summary      Create a post
// @Tags         Posts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      models.PostInput  true  "Post"
// @Success      201   {object}  models.Post
// @Failure      400   {object}  utils.ErrorResponse
// @Router       /posts [post]
func (pc *PostController) CreatePost(c *gin.Context) {
	var input models.PostInput
	if err := utils.BindJSON(c, &input); err != nil {
		utils.RespondError(c, err)
		return
	}

	post, err := pc.posts.Create(c.Request.Context(), middleware.CurrentUser(c), &input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// GetPost godoc
// @Summary      Read a post
// @Description  Published posts are public and count a view. Drafts are visible to their author only.
// @Tags         Posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  models.Post
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      403  {object}  utils.ErrorResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /posts/{id} [get]
func (pc *PostController) GetPost(c *gin.Context) {
	id, err := parseID(c, "id", "post")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	post, err := pc.posts.Read(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, post)
}

// UpdatePost godoc
// @Summary      Update a post
// @Tags         Posts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      int               true  "Post ID"
// @Param        body  body      models.PostInput  true  "Post"
// @Success      200   {object}  models.Post
// @Failure      403   {object}  utils.ErrorResponse
// @Router       /posts/{id} [put]
func (pc *PostController) UpdatePost(c *gin.Context) {
	id, err := parseID(c, "id", "post")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var input models.PostInput
	if err := utils.BindJSON(c, &input); err != nil {
		utils.RespondError(c, err)
		return
	}

	post, err := pc.posts.Update(c.Request.Context(), id, middleware.CurrentUser(c), &input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, post)
}

// DeletePost godoc
// @Summary      Delete a post
// @Tags         Posts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  utils.ErrorResponse
// @Failure      403  {object}  utils.ErrorResponse
// @Router       /posts/{id} [delete]
func (pc *PostController) DeletePost(c *gin.Context) {
	id, err := parseID(c, "id", "post")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if err := pc.posts.Delete(c.Request.Context(), id, middleware.CurrentUser(c)); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, utils.ErrorResponse{Message: "Post deleted successfully"})
}

// ToggleLike godoc
// @Summary      Like or unlike a post
// @Tags         Posts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  LikeResponse
// @Router       /posts/{id}/like [post]
func (pc *PostController) ToggleLike(c *gin.Context) {
	id, err := parseID(c, "id", "post")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	liked, post, err := pc.posts.ToggleLike(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, LikeResponse{
		Liked:     liked,
		LikeCount: post.Meta.LikeCount,
		Likes:     post.Meta.Likes,
	})
}
