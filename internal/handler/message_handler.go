package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teamcollab-api/internal/service"
)

type MessageHandler struct {
	messageService service.MessageService
	logger         *zap.Logger
}

func NewMessageHandler(messageService service.MessageService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		logger:         logger,
	}
}

type SendMessageRequest struct {
	UserID  uint   `json:"user_id"`
	Message string `json:"message"`
}

// ListMessages godoc
// @Summary      Fetch the room history, oldest first
// @Tags         message
// @Produce      json
// @Success      200 {array} model.MessageView
// @Failure      500 {object} map[string]string
// @Router       /messages [get]
func (h *MessageHandler) ListMessages(c *gin.Context) {
	messages, err := h.messageService.List()
	if err != nil {
		h.logger.Error("failed to fetch messages", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

// SendMessage godoc
// @Summary      Store a message and broadcast it to connected clients
// @Tags         message
// @Accept       json
// @Produce      json
// @Param        request body SendMessageRequest true "Message"
// @Success      201 {object} model.MessageView
// @Failure      400 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /messages [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user_id or message"})
		return
	}
	if req.UserID == 0 || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user_id or message"})
		return
	}

	view, err := h.messageService.Send(req.UserID, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("failed to insert message", zap.Uint("userId", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to insert message"})
		return
	}

	c.JSON(http.StatusCreated, view)
}
