package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"teamcollab-api/internal/realtime"
	"teamcollab-api/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type WSHandler struct {
	hub            *realtime.Hub
	userService    service.UserService
	messageService service.MessageService
	logger         *zap.Logger
}

func NewWSHandler(
	hub *realtime.Hub,
	userService service.UserService,
	messageService service.MessageService,
	logger *zap.Logger,
) *WSHandler {
	return &WSHandler{
		hub:            hub,
		userService:    userService,
		messageService: messageService,
		logger:         logger,
	}
}

// HandleWebSocket godoc
// @Summary      Open the realtime connection for a session
// @Description  The client presents its user id at connect time; unknown
// @Description  identities are rejected before the upgrade.
// @Tags         websocket
// @Param        userId query int true "User ID"
// @Success      101 {string} string "Switching Protocols"
// @Failure      401 {object} map[string]string
// @Router       /ws [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("userId"), 10, 64)
	if err != nil || userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User identity required"})
		return
	}

	user, err := h.userService.GetByID(uint(userID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}

	client := realtime.NewClient(h.hub, conn, user.ID, user.Username, string(user.Role), h.logger, h.handleClientEvent)
	h.hub.Connect(client)

	go client.WritePump()
	go client.ReadPump()
}

type inboundMessage struct {
	Message string `json:"message"`
}

// handleClientEvent dispatches domain events arriving over the socket.
// The task relays are informational only: the authoritative task pushes are
// issued server-side after the HTTP mutation, so relays are dropped.
func (h *WSHandler) handleClientEvent(client *realtime.Client, evt realtime.Event) {
	switch evt.Event {
	case realtime.EventSendMessage:
		var msg inboundMessage
		if err := json.Unmarshal(evt.Data, &msg); err != nil || msg.Message == "" {
			h.logger.Warn("malformed sendMessage payload", zap.Uint("userId", client.UserID()))
			return
		}
		if _, err := h.messageService.Send(client.UserID(), msg.Message); err != nil {
			h.logger.Error("failed to handle socket message",
				zap.Uint("userId", client.UserID()),
				zap.Error(err))
		}

	case realtime.EventTaskAssigned, realtime.EventTaskUpdated:
		h.logger.Debug("ignoring client task relay",
			zap.String("event", evt.Event),
			zap.Uint("userId", client.UserID()))

	default:
		h.logger.Warn("unknown client event",
			zap.String("event", evt.Event),
			zap.Uint("userId", client.UserID()))
	}
}
