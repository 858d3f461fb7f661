package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feedback-insights/dashboard/internal/api"
	"github.com/feedback-insights/dashboard/internal/config"
	"github.com/feedback-insights/dashboard/internal/digest"
	"github.com/feedback-insights/dashboard/internal/models"
	"github.com/feedback-insights/dashboard/internal/notifications"
	"github.com/feedback-insights/dashboard/internal/scheduler"
	"github.com/feedback-insights/dashboard/internal/seed"
	"github.com/feedback-insights/dashboard/internal/storage"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting Feedback Insights Dashboard")

	// Initialize storage
	store, err := storage.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	// Load deployment catalog
	deployments, err := loadDeployments(cfg.DeploymentsFile)
	if err != nil {
		logrus.Fatalf("Failed to load deployments: %v", err)
	}

	rng := newRand(cfg.SeedRandom)

	// Seed mock feedback on first run against an empty database
	if cfg.SeedMockData {
		if err := seedIfEmpty(store, rng); err != nil {
			logrus.Fatalf("Failed to seed mock data: %v", err)
		}
	}

	// Initialize notification services
	notificationService := notifications.NewService(cfg)

	// Initialize digest service
	digestService := digest.NewService(cfg, store, notificationService, deployments)

	// Initialize scheduler
	schedulerService := scheduler.NewService(cfg, digestService)

	// Start scheduler
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	// Set up HTTP server
	apiServer := api.NewServer(store, digestService, deployments, cfg.FeedbackLimit, rng)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

// loadDeployments reads the deployment catalog from the configured JSON file,
// falling back to the built-in catalog when no file is configured.
func loadDeployments(path string) ([]models.Deployment, error) {
	if path == "" {
		return models.DefaultDeployments, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deployments file: %w", err)
	}

	var deployments []models.Deployment
	if err := json.Unmarshal(data, &deployments); err != nil {
		return nil, fmt.Errorf("failed to parse deployments file: %w", err)
	}

	logrus.Infof("Loaded %d deployments from %s", len(deployments), path)
	return deployments, nil
}

func newRand(seedValue int64) *rand.Rand {
	if seedValue == 0 {
		seedValue = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seedValue))
}

func seedIfEmpty(store storage.FeedbackStore, rng *rand.Rand) error {
	count, err := store.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		logrus.Debugf("Database already contains %d feedback events, skipping seed", count)
		return nil
	}

	_, err = seed.Populate(store, rng, time.Now())
	return err
}
