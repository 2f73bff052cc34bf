package api

import (
	"Relopilot_1.0/backend/go/internal/models"
	"Relopilot_1.0/backend/go/internal/profile/notify"
	"Relopilot_1.0/backend/go/internal/profile/service"
	"Relopilot_1.0/backend/go/internal/profile/store"
	"Relopilot_1.0/backend/go/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// API provides handlers for the fact pipeline service.
type API struct {
	turns         *service.TurnService
	confirmations *service.ConfirmationService
	hub           *notify.Hub
	logger        *logger.Logger
	upgrader      websocket.Upgrader
}

// NewAPI creates a new API handler.
func NewAPI(turns *service.TurnService, confirmations *service.ConfirmationService, hub *notify.Hub, logger *logger.Logger) *API {
	return &API{
		turns:         turns,
		confirmations: confirmations,
		hub:           hub,
		logger:        logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // In production, implement a proper origin check.
			},
		},
	}
}

// ProcessTurnHandler ingests one finished conversation turn and reports the
// intake outcome per extracted fact.
func (a *API) ProcessTurnHandler(c *gin.Context) {
	userID := c.GetString("userID")

	var payload struct {
		UserMessage       string `json:"user_message"`
		AssistantResponse string `json:"assistant_response"`
		Source            string `json:"source"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		a.logger.WithError(models.ErrorInfo{Message: err.Error()}).Warn("Invalid turn payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	turn := &models.ConversationTurn{
		UserID:            userID,
		UserMessage:       payload.UserMessage,
		AssistantResponse: payload.AssistantResponse,
		Source:            payload.Source,
	}

	results, err := a.turns.ProcessTurn(c.Request.Context(), turn)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process turn"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// ListConfirmationsHandler returns the user's confirmation records, newest
// first, optionally filtered by status. This is the reviewer's initial and
// reconnect fetch.
func (a *API) ListConfirmationsHandler(c *gin.Context) {
	userID := c.GetString("userID")

	status := models.ConfirmationStatus(c.Query("status"))
	switch status {
	case "", models.ConfirmationPending, models.ConfirmationAccepted, models.ConfirmationRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	confirmations, err := a.confirmations.List(c.Request.Context(), userID, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list confirmations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"confirmations": confirmations})
}

// ResolveConfirmationHandler applies an accept/reject decision to one
// confirmation owned by the acting user.
func (a *API) ResolveConfirmationHandler(c *gin.Context) {
	userID := c.GetString("userID")
	id := c.Param("id")

	var payload struct {
		Action string `json:"action"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	confirmation, err := a.confirmations.Resolve(c.Request.Context(), userID, id, payload.Action)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, confirmation)
	case errors.Is(err, service.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action must be \"accept\" or \"reject\""})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Confirmation not found"})
	case errors.Is(err, service.ErrAlreadyResolved):
		c.JSON(http.StatusConflict, gin.H{"error": "Confirmation already resolved"})
	default:
		a.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Failed to resolve confirmation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve confirmation"})
	}
}

// SubscribeHandler upgrades to a WebSocket and streams the user's
// confirmation events until the client disconnects. There is no replay; the
// client should follow the upgrade with a list fetch.
func (a *API) SubscribeHandler(c *gin.Context) {
	userID := c.GetString("userID")

	conn, err := a.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		a.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Failed to upgrade WebSocket connection")
		return
	}

	sub := a.hub.Subscribe(userID)

	// Drain reads so close frames and pings are processed.
	go func() {
		defer sub.Close()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				break
			}
		}
	}()

	go func() {
		defer conn.Close()
		for event := range sub.Events() {
			if err := conn.WriteJSON(event); err != nil {
				sub.Close()
				break
			}
		}
	}()
}
