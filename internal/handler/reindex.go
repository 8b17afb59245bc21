package handler

import (
	"fmt"
	"net/http"

	"phongtro/internal/model"
	"phongtro/internal/service"

	"github.com/gin-gonic/gin"
)

// ReindexHandler handles index administration requests
type ReindexHandler struct {
	index *service.Indexer
}

// NewReindexHandler creates a new reindex handler
func NewReindexHandler(index *service.Indexer) *ReindexHandler {
	return &ReindexHandler{index: index}
}

// Reindex handles POST /reindex
func (h *ReindexHandler) Reindex(c *gin.Context) {
	var req model.ReindexRequest
	// Body is optional, an empty POST means a regular reindex
	_ = c.ShouldBindJSON(&req)

	count, err := h.index.Reindex(c.Request.Context(), req.Force)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reindex failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.ReindexResponse{
		IndexedCount: count,
		Message:      fmt.Sprintf("Indexed %d rooms", count),
	})
}
