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

	"github.com/robfig/cron/v3"

	"learnpath-backend/internal/config"
	"learnpath-backend/internal/database"
	"learnpath-backend/internal/handlers"
	"learnpath-backend/internal/middleware"
	"learnpath-backend/internal/render"
	"learnpath-backend/internal/repository"
	"learnpath-backend/internal/router"
	"learnpath-backend/internal/services"
	"learnpath-backend/internal/websocket"
	"learnpath-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting LearnPath Backend...")

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

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	courseRepo := repository.NewCourseRepo(pool)
	completionRepo := repository.NewCompletionRepo(pool)
	viewLogRepo := repository.NewViewLogRepo(pool)
	videoRepo := repository.NewVideoActivityRepo(pool)
	fileRepo := repository.NewFileRepo(pool)
	licenseRepo := repository.NewLicenseRepo(pool)
	settingsRepo := repository.NewSettingsRepo(pool)

	// ──── Initialize File Store & Renderer ────
	fileStore, err := services.NewFileStore(cfg.StoragePath)
	if err != nil {
		log.Fatalf("✗ File store initialization failed: %v", err)
	}
	renderer, err := render.New()
	if err != nil {
		log.Fatalf("✗ Template parsing failed: %v", err)
	}
	log.Println("✓ File store and templates ready")

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, redisClients.Queue, jwtAuth)
	modInfoService := services.NewModInfoService(courseRepo)
	progress := services.NewProgressSummariser()
	completionService := services.NewCompletionService(completionRepo, redisClients.Queue, progress)
	resumeSelector := services.NewResumeSelector(viewLogRepo, cfg.BaseURL)
	transcriptExtractor := services.NewTranscriptExtractor()
	youtubeService := services.NewYouTubeService()
	accessLog := services.NewAccessLog(redisClients.Queue)
	activityService := services.NewVideoActivityService(videoRepo, courseRepo, fileRepo, fileStore, accessLog)
	activityRouter := services.NewActivityRouter(
		modInfoService, completionService, progress, courseRepo,
		videoRepo, fileRepo, fileStore, transcriptExtractor, cfg.BaseURL,
	)
	coursePage := services.NewCoursePageService(
		modInfoService, completionService, progress, resumeSelector,
		courseRepo, fileRepo, cfg.BaseURL,
	)
	licenseService := services.NewLicenseService(licenseRepo, redisClients.Queue, cfg.LicenseEndpoint, cfg.LicenseProduct)
	surveyService := services.NewSurveyService(settingsRepo, userRepo, cfg.SurveyDelayHours)

	// First boot records the install time for the survey gate.
	if err := surveyService.RecordInstallTime(context.Background()); err != nil {
		log.Printf("Failed to record install time: %v", err)
	}

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	courseHandler := handlers.NewCourseHandler(
		modInfoService, activityRouter, coursePage,
		surveyService, licenseService, completionService, accessLog, renderer,
	)
	modViewHandler := handlers.NewModViewHandler(
		courseRepo, modInfoService, activityRouter,
		completionService, accessLog, renderer, cfg.BaseURL,
	)
	activityHandler := handlers.NewActivityHandler(activityService, completionService, modInfoService, courseRepo)
	fileHandler := handlers.NewFileHandler(fileRepo, fileStore)
	licenseHandler := handlers.NewLicenseHandler(licenseService)
	surveyHandler := handlers.NewSurveyHandler(surveyService)

	// ──── Step 5: Start Worker Pool ────
	workerPool := worker.NewPool(redisClients.Queue, viewLogRepo, youtubeService, activityService, cfg.ViewWorkers)
	workerPool.Start()
	log.Printf("✓ Worker pool started (%d goroutines)", cfg.ViewWorkers)

	// ──── Step 6: Schedule License Re-verification ────
	scheduler := cron.New()
	scheduler.AddFunc("@daily", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		licenseService.Reverify(ctx)
	})
	scheduler.Start()
	log.Println("✓ License re-verification scheduled")

	// ──── Step 7: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub)
	log.Println("✓ WebSocket hub started")

	// ──── Step 8: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		courseHandler,
		modViewHandler,
		activityHandler,
		fileHandler,
		licenseHandler,
		surveyHandler,
		wsHub,
		cfg.FrontendURL,
		cfg.StaticDir,
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
		scheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ LearnPath Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  Course pages: http://localhost:%s/course/view.php?id=1", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
