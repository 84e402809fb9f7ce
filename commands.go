package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"inkwell/config"
	"inkwell/database"
	"inkwell/models"
	"inkwell/routes"
	"inkwell/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var (
	adminEmail    string
	adminUsername string
	adminPassword string
)

var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Blog CMS backend",
	Long: `Inkwell serves the blog API.

Examples:
  inkwell                 # Same as inkwell serve
  inkwell serve           # Migrate and start the HTTP server
  inkwell migrate         # Apply schema migrations and exit
  inkwell create-admin --email a@b.c --username admin --password secret123`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)
		return database.Migrate(db)
	},
}

// createAdminCmd is the only way to obtain an admin account; no HTTP route assigns roles.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminEmail == "" || adminUsername == "" || len(adminPassword) < 8 {
			return fmt.Errorf("--email, --username and a --password of at least 8 characters are required")
		}

		cfg := config.Load()
		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)
		if err := database.Migrate(db); err != nil {
			return err
		}

		user, err := services.NewUserService(db).CreateUser(cmd.Context(), &models.CreateUserRequest{
			Email:    adminEmail,
			Username: adminUsername,
			Password: adminPassword,
		}, models.RoleAdmin)
		if err != nil {
			return err
		}
		log.Printf("Admin %s created with id %d", user.Username, user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd)

	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email")
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Admin username")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password")
}

func runServe(parent context.Context) error {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return err
	}

	r := routes.NewEngine(cfg, db)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		log.Printf("Swagger docs available at: %s/swagger/index.html", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
