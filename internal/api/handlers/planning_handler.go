// backend-go/internal/api/handlers/planning_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kmeatops/inventory-recon/backend-go/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PlanningHandler struct {
	service *service.PlanningService
}

func NewPlanningHandler(service *service.PlanningService) *PlanningHandler {
	return &PlanningHandler{service: service}
}

func (h *PlanningHandler) GetReplenishment(c *gin.Context) {
	windowDays, _ := strconv.Atoi(c.DefaultQuery("window_days", "0"))

	report, err := h.service.Replenishment(c.Request.Context(), windowDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build replenishment report", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// DownloadReplenishment streams the suggestion report as a spreadsheet.
func (h *PlanningHandler) DownloadReplenishment(c *gin.Context) {
	windowDays, _ := strconv.Atoi(c.DefaultQuery("window_days", "0"))

	data, filename, err := h.service.ReplenishmentWorkbook(c.Request.Context(), windowDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render replenishment workbook", "details": err.Error()})
		return
	}

	// RFC 5987 encoding, the file name carries Korean characters.
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *PlanningHandler) GetMovements(c *gin.Context) {
	windowDays, _ := strconv.Atoi(c.DefaultQuery("window_days", "0"))

	query := service.MovementQuery{
		WindowDays:   windowDays,
		Side:         strings.TrimSpace(c.Query("side")),
		Counterparty: strings.TrimSpace(c.Query("counterparty")),
		NameContains: strings.TrimSpace(c.Query("name")),
	}

	report, err := h.service.Movements(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search movements", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
