package routes

import (
	"net/http"
	"strings"
	"time"

	"inkwell/config"
	"inkwell/controllers"
	"inkwell/middleware"
	"inkwell/models"
	"inkwell/services"
	"inkwell/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handlers struct {
	Auth       *controllers.AuthController
	Users      *controllers.UserController
	Posts      *controllers.PostController
	Profile    *controllers.ProfileController
	Categories *controllers.CategoryController
	Tags       *controllers.TagController
}

func SetupRoutes(r *gin.Engine, h Handlers, policy *services.AccessPolicy, loginLimiter *middleware.RateLimiter) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	anyone := middleware.RequireRoles(policy, services.AllRoles...)
	authors := middleware.RequireRoles(policy, models.RoleAuthor)
	admins := middleware.RequireRoles(policy, models.RoleAdmin)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", loginLimiter.Limit(), h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", anyone, h.Auth.Me)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", h.Posts.GetPosts)
			posts.POST("", authors, h.Posts.CreatePost)
			posts.GET("/:id", middleware.OptionalUser(policy), h.Posts.GetPost)
			posts.PUT("/:id", authors, h.Posts.UpdatePost)
			posts.DELETE("/:id", authors, h.Posts.DeletePost)
			posts.POST("/:id/like", anyone, h.Posts.ToggleLike)
		}

		api.GET("/search", h.Posts.Search)
		api.GET("/categories", h.Categories.GetCategories)

		profile := api.Group("/profile")
		{
			profile.GET("", anyone, h.Profile.GetProfile)
			profile.PUT("", anyone, h.Profile.UpdateProfile)
			profile.GET("/posts", authors, h.Profile.GetOwnPosts)
		}

		admin := api.Group("/admin")
		admin.Use(admins)
		{
			admin.GET("/users", h.Users.GetUsers)
			admin.GET("/users/:id", h.Users.GetUser)
			admin.PUT("/users/:id", h.Users.UpdateUser)
			admin.DELETE("/users/:id", h.Users.DeleteUser)

			admin.POST("/categories", h.Categories.CreateCategory)
			admin.PUT("/categories/:id", h.Categories.UpdateCategory)
			admin.DELETE("/categories/:id", h.Categories.DeleteCategory)

			admin.GET("/tags", h.Tags.GetTags)
			admin.PATCH("/tags/:name", h.Tags.RenameTag)
			admin.DELETE("/tags/:name", h.Tags.DeleteTag)
		}
	}
}

// NewEngine wires services and controllers over db and returns the full router.
func NewEngine(cfg *config.Config, db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	r.Use(middleware.Gatekeeper(tokens))

	policy := services.NewAccessPolicy(db, tokens)
	userService := services.NewUserService(db)
	queries := services.NewPostQueryService(db)
	posts := services.NewPostService(db, services.PostServiceOptions{
		RefreshSEOOnUpdate: cfg.SEORefreshOnUpdate,
	})

	secureCookie := strings.HasPrefix(cfg.BaseURL, "https://")
	handlers := Handlers{
		Auth:       controllers.NewAuthController(userService, tokens, secureCookie),
		Users:      controllers.NewUserController(userService),
		Posts:      controllers.NewPostController(posts, queries),
		Profile:    controllers.NewProfileController(userService, queries),
		Categories: controllers.NewCategoryController(services.NewCategoryService(db, queries)),
		Tags:       controllers.NewTagController(services.NewTagService(db)),
	}

	SetupRoutes(r, handlers, policy, middleware.NewRateLimiter(cfg.LoginRateLimit, time.Minute))
	return r
}
