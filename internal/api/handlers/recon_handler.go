// backend-go/internal/api/handlers/recon_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kmeatops/inventory-recon/backend-go/internal/domain"
	"github.com/kmeatops/inventory-recon/backend-go/internal/service"
)

type ReconHandler struct {
	service *service.ReconService
}

func NewReconHandler(service *service.ReconService) *ReconHandler {
	return &ReconHandler{service: service}
}

// GetReconciliation compares the ERP and branch ledgers for the
// requested snapshot date, defaulting to the newest shared one.
func (h *ReconHandler) GetReconciliation(c *gin.Context) {
	date := strings.TrimSpace(c.Query("snapshot_date"))

	report, err := h.service.Reconcile(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reconcile ledgers", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReconHandler) GetHealth(c *gin.Context) {
	date := strings.TrimSpace(c.Query("snapshot_date"))

	report, err := h.service.Health(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to classify stock health", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReconHandler) GetTrend(c *gin.Context) {
	report, err := h.service.Trend(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build trend", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReconHandler) GetAvailableDates(c *gin.Context) {
	dates, err := h.service.AvailableDates(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch available dates", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dates": dates})
}

func (h *ReconHandler) GetRunHistory(c *gin.Context) {
	filter := domain.ReportRunFilter{
		Page:     1,
		PageSize: 50,
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "50")); err == nil && size > 0 {
		filter.PageSize = size
	}
	if kinds := strings.TrimSpace(c.Query("report_kinds")); kinds != "" {
		for _, kind := range strings.Split(kinds, ",") {
			if kind = strings.TrimSpace(kind); kind != "" {
				filter.ReportKinds = append(filter.ReportKinds, kind)
			}
		}
	}
	if date := strings.TrimSpace(c.Query("snapshot_date")); date != "" {
		filter.SnapshotDate = date
	}

	runs, total, err := h.service.RunHistory(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch run history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":  runs,
		"total": total,
	})
}

// GetRunSummary counts the recorded runs per report kind.
func (h *ReconHandler) GetRunSummary(c *gin.Context) {
	filter := domain.ReportRunFilter{}
	if kinds := strings.TrimSpace(c.Query("report_kinds")); kinds != "" {
		for _, kind := range strings.Split(kinds, ",") {
			if kind = strings.TrimSpace(kind); kind != "" {
				filter.ReportKinds = append(filter.ReportKinds, kind)
			}
		}
	}
	if date := strings.TrimSpace(c.Query("snapshot_date")); date != "" {
		filter.SnapshotDate = date
	}

	summary, err := h.service.RunSummary(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to summarize run history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// InvalidateCache drops every cached report, forcing recomputation from
// the current workbooks.
func (h *ReconHandler) InvalidateCache(c *gin.Context) {
	if err := h.service.InvalidateReports(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to invalidate report cache", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "invalidated"})
}
