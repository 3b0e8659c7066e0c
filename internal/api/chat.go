package api

import (
	"net/http"

	"etegie-bot/backend/internal/service"
	"etegie-bot/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Message   string `json:"message"`
	CompanyID string `json:"companyId,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// ChatHandler serves the public chat endpoint and session history
type ChatHandler struct {
	service *service.ChatService
	logger  *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(service *service.ChatService, logger *logger.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  logger,
	}
}

// PostChat answers one chat message
func (h *ChatHandler) PostChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.FromGin(c).Warn("Error binding JSON for chat", "error", err.Error())
		badRequest(c, "Invalid request format", err)
		return
	}

	out, err := h.service.Chat(c.Request.Context(), service.ChatInput{
		Message:   req.Message,
		CompanyID: req.CompanyID,
		SessionID: req.SessionID,
		Channel:   "http",
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// History lists the logged exchanges of one session
func (h *ChatHandler) History(c *gin.Context) {
	companyID := c.Param("companyId")
	sessionID := c.Param("sessionId")

	messages, err := h.service.History(c.Request.Context(), companyID, sessionID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"companyId": companyID,
		"sessionId": sessionID,
		"messages":  messages,
	})
}
