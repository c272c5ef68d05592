package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripdesk_backend/internal/assistant/agent"
	"tripdesk_backend/internal/assistant/transport"
	"tripdesk_backend/platform/httpkit"
	"tripdesk_backend/platform/validator"
)

// Handler handles HTTP requests for the conversational assistant.
type Handler struct {
	orchestrator *agent.Orchestrator
	val          *validator.Validator
}

// New creates a new assistant handler.
func New(orchestrator *agent.Orchestrator, val *validator.Validator) *Handler {
	return &Handler{orchestrator: orchestrator, val: val}
}

// Chat handles one conversational turn. Anonymous callers may chat; a bearer
// token, when present, identifies the customer for booking creation.
// POST /api/v1/assistant/chat
func (h *Handler) Chat(c *gin.Context) {
	var req transport.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	caller := agent.Caller{}
	if id := httpkit.GetIdentity(c); id.IsAuthenticated() {
		userID := id.UserID()
		if userID != uuid.Nil {
			caller.CustomerID = &userID
			caller.DisplayName = id.DisplayName()
		}
	}

	result, err := h.orchestrator.Chat(c.Request.Context(), caller, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
