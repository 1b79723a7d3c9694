package handlers

import (
	"net/http"

	"lifebridge-backend/llm"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler handles HTTP requests for the assistant chat
type ChatHandler struct {
	client llm.Client
	logger *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(client llm.Client, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{
		client: client,
		logger: logger,
	}
}

// ChatRequest represents the request body for a chat turn
type ChatRequest struct {
	Message string        `json:"message" binding:"required"`
	History []llm.Message `json:"history"`
}

// Chat handles POST /api/chat. Provider failures never surface as HTTP
// errors: the user gets a fixed apology and the request still succeeds.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	reply, err := h.client.Chat(c.Request.Context(), req.Message, req.History)
	if err != nil {
		h.logger.Warn("chat_unavailable", zap.Error(err))
		reply = llm.ChatUnavailableMessage
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"reply": reply,
		},
	})
}
