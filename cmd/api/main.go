// backend-go/cmd/api/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/kmeatops/inventory-recon/backend-go/internal/api"
	"github.com/kmeatops/inventory-recon/backend-go/internal/cache"
	"github.com/kmeatops/inventory-recon/backend-go/internal/config"
	"github.com/kmeatops/inventory-recon/backend-go/internal/drive"
	"github.com/kmeatops/inventory-recon/backend-go/internal/memo"
	"github.com/kmeatops/inventory-recon/backend-go/internal/repository"
	"github.com/kmeatops/inventory-recon/backend-go/internal/repository/postgres"
	"github.com/kmeatops/inventory-recon/backend-go/internal/service"
	"github.com/kmeatops/inventory-recon/backend-go/pkg/logger"
)

func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	cfg := config.Load()

	logger.SetLevel(cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	source, err := newWorkbookSource(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize workbook source")
	}

	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Report cache unavailable, running without it")
		reportCache = cache.NewNoopReportCache()
	}

	var runs repository.ReportRunRepository
	if db, err := postgres.NewDB(&cfg.Database); err != nil {
		logger.Log.Warn().Err(err).Msg("Database unavailable, run audit disabled")
	} else {
		runs = repository.NewReportRunRepository(db.DB)
		defer db.Close()
	}

	services := &api.Services{
		ReconService:    service.NewReconService(source, reportCache, runs, cfg.Analysis),
		PlanningService: service.NewPlanningService(source, reportCache, runs, cfg.Analysis),
	}

	if cfg.Cache.Enabled {
		if client, _, err := cache.NewRedisClient(cfg.Cache); err != nil {
			logger.Log.Warn().Err(err).Msg("Redis unavailable, memo board disabled")
		} else {
			services.MemoStore = memo.NewStore(client)
		}
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// newWorkbookSource prefers Google Drive when a folder is configured and
// falls back to the local workbook directory.
func newWorkbookSource(cfg *config.Config) (service.WorkbookFetcher, error) {
	if cfg.Drive.FolderID != "" {
		creds, err := loadDriveCredentials(cfg)
		if err != nil {
			return nil, err
		}
		driveService, err := drive.NewService(creds)
		if err != nil {
			return nil, err
		}
		return drive.NewWorkbookSource(driveService, cfg.Drive.FolderID, drive.WorkbookNames{
			ERPStock: cfg.Drive.ERPStockFile,
			SMStock:  cfg.Drive.SMStockFile,
			TradeLog: cfg.Drive.TradeLogFile,
		}), nil
	}

	return service.NewLocalWorkbookSource(cfg.App.DataDir, cfg.Drive.ERPStockFile, cfg.Drive.SMStockFile, cfg.Drive.TradeLogFile), nil
}

func loadDriveCredentials(cfg *config.Config) (string, error) {
	if creds := os.Getenv("GOOGLE_DRIVE_CREDENTIALS_JSON"); creds != "" {
		return creds, nil
	}
	data, err := os.ReadFile(cfg.Drive.CredentialsFile)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
