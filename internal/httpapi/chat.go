package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"telecom-care/internal/care"
	"telecom-care/internal/intent"
	"telecom-care/pkg/logger"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Message  string                       `json:"message"`
	UserID   string                       `json:"userId"`
	Incident *intent.IncidentConfirmation `json:"incident,omitempty"`
}

// Chat runs one web chat turn through the care orchestrator.
func (h Handlers) Chat(c *gin.Context) {
	if h.Care == nil {
		notConfigured(c, "chat")
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}
	if strings.TrimSpace(req.Message) == "" && req.Incident == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	resp, err := h.Care.Handle(c.Request.Context(), care.Request{
		CustomerID: req.UserID,
		Text:       req.Message,
		Confirm:    req.Incident,
		Channel:    care.ChannelWeb,
	})
	switch {
	case errors.Is(err, care.ErrCustomerNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	case errors.Is(err, care.ErrEmptyMessage):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	case err != nil:
		logger.FromGin(c).Error("chat turn failed", "user_id", req.UserID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
