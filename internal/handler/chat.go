package handler

import (
	"net/http"

	"phongtro/internal/model"
	"phongtro/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	processor *service.QuestionProcessor
	index     *service.Indexer
}

// NewChatHandler creates a new chat handler
func NewChatHandler(processor *service.QuestionProcessor, index *service.Indexer) *ChatHandler {
	return &ChatHandler{
		processor: processor,
		index:     index,
	}
}

// Chat handles POST /chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result := h.processor.Process(c.Request.Context(), req.Question, req.UserID, req.SessionID)
	c.JSON(http.StatusOK, result)
}

// GetRoom handles GET /api/v1/rooms/:id
func (h *ChatHandler) GetRoom(c *gin.Context) {
	roomID := c.Param("id")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	room, err := h.index.GetByID(c.Request.Context(), roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get room: " + err.Error()})
		return
	}
	if room == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	c.JSON(http.StatusOK, room)
}
