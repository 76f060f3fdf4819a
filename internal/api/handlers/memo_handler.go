// backend-go/internal/api/handlers/memo_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kmeatops/inventory-recon/backend-go/internal/memo"
)

type MemoHandler struct {
	store *memo.Store
}

func NewMemoHandler(store *memo.Store) *MemoHandler {
	return &MemoHandler{store: store}
}

type memoRequest struct {
	Content string `json:"content" binding:"required"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

func (h *MemoHandler) List(c *gin.Context) {
	memos, err := h.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list memos", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"memos": memos})
}

func (h *MemoHandler) Create(c *gin.Context) {
	var req memoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid memo body", "details": err.Error()})
		return
	}

	m, err := h.store.Add(c.Request.Context(), strings.TrimSpace(req.Content), req.X, req.Y)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create memo", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, m)
}

func (h *MemoHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req memoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid memo body", "details": err.Error()})
		return
	}

	m, err := h.store.Update(c.Request.Context(), id, strings.TrimSpace(req.Content), req.X, req.Y)
	if err != nil {
		if errors.Is(err, memo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "memo not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update memo", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, m)
}

func (h *MemoHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, memo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "memo not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete memo", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
