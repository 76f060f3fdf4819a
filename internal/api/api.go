// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kmeatops/inventory-recon/backend-go/internal/api/handlers"
	"github.com/kmeatops/inventory-recon/backend-go/internal/api/middleware"
	"github.com/kmeatops/inventory-recon/backend-go/internal/memo"
	"github.com/kmeatops/inventory-recon/backend-go/internal/service"
)

type Services struct {
	ReconService    *service.ReconService
	PlanningService *service.PlanningService
	MemoStore       *memo.Store
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(gin.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.ReconService != nil {
			reconHandler := handlers.NewReconHandler(services.ReconService)
			reconGroup := apiGroup.Group("/recon")
			{
				reconGroup.GET("/report", reconHandler.GetReconciliation)
				reconGroup.GET("/available_dates", reconHandler.GetAvailableDates)
				reconGroup.GET("/runs", reconHandler.GetRunHistory)
				reconGroup.GET("/runs/summary", reconHandler.GetRunSummary)
				reconGroup.POST("/cache/invalidate", reconHandler.InvalidateCache)
			}

			stockGroup := apiGroup.Group("/stock")
			{
				stockGroup.GET("/health", reconHandler.GetHealth)
				stockGroup.GET("/trend", reconHandler.GetTrend)
			}
		}

		if services.PlanningService != nil {
			planningHandler := handlers.NewPlanningHandler(services.PlanningService)
			planningGroup := apiGroup.Group("/planning")
			{
				planningGroup.GET("/replenishment", planningHandler.GetReplenishment)
				planningGroup.GET("/replenishment/export", planningHandler.DownloadReplenishment)
				planningGroup.GET("/movements", planningHandler.GetMovements)
			}
		}

		if services.MemoStore != nil {
			memoHandler := handlers.NewMemoHandler(services.MemoStore)
			memoGroup := apiGroup.Group("/memos")
			{
				memoGroup.GET("", memoHandler.List)
				memoGroup.POST("", memoHandler.Create)
				memoGroup.PUT("/:id", memoHandler.Update)
				memoGroup.DELETE("/:id", memoHandler.Delete)
			}
		}
	}

	return router
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	log.Error().Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
