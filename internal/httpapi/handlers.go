package httpapi

import (
	"errors"
	"net/http"
	"time"

	"telecom-care/internal/accounts"
	"telecom-care/internal/audit"
	"telecom-care/internal/auth"
	"telecom-care/internal/care"
	"telecom-care/internal/customers"
	"telecom-care/internal/offers"
	"telecom-care/internal/reporting"
	"telecom-care/internal/transcribe"
	"telecom-care/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Auth      *auth.Manager
	Accounts  *accounts.Service
	Care      *care.Service
	Customers *customers.Service
	Offers    *offers.Service
	Speech    transcribe.Transcriber
	Reporting *reporting.Service
	Audit     *audit.Service

	Now func() time.Time
}

func (h Handlers) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

// abortLookup maps customer lookup errors to stable HTTP responses.
func abortLookup(c *gin.Context, err error, what string) {
	switch {
	case errors.Is(err, customers.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": what + " not found"})
	case errors.Is(err, customers.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	default:
		logger.FromGin(c).Error("customer data access failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func notConfigured(c *gin.Context, what string) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": what + " not configured"})
}
