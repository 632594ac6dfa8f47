package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lexipic-backend/internal/config"
	"lexipic-backend/internal/database"
	"lexipic-backend/internal/handlers"
	"lexipic-backend/internal/middleware"
	"lexipic-backend/internal/practice"
	"lexipic-backend/internal/repository"
	"lexipic-backend/internal/router"
	"lexipic-backend/internal/services"
	"lexipic-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting Lexipic Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	flashcardRepo := repository.NewFlashcardRepo(pool)
	statRepo := repository.NewStatRepo(pool)
	jobRepo := repository.NewJobRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, jwtAuth)
	detectorService := services.NewDetectorService(cfg.DetectorURL)
	practiceService := practice.NewService(flashcardRepo, statRepo, nil, nil)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService, userRepo)
	flashcardHandler := handlers.NewFlashcardHandler(practiceService, flashcardRepo, statRepo, jobRepo, redisClient)
	userHandler := handlers.NewUserHandler(userRepo, statRepo, practiceService, redisClient)
	imageHandler := handlers.NewImageHandler(flashcardRepo, userRepo, detectorService, cfg.StoragePath)

	// ──── Step 5: Start Job Worker Pool ────
	workerPool := worker.NewPool(redisClient, detectorService, jobRepo, flashcardRepo, cfg.StoragePath, cfg.WorkerCount)
	workerPool.Start()
	log.Printf("✓ Worker pool started (%d goroutines)", cfg.WorkerCount)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		flashcardHandler,
		userHandler,
		imageHandler,
		cfg.FrontendURL,
		cfg.StoragePath,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Lexipic Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
