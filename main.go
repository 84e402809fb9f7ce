package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	_ "inkwell/docs"
)

// @title Inkwell API
// @version 1.0
// @description Blog CMS backend with role-based access, faceted search and post lifecycle management

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
