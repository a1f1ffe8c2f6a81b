package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type analyzeRequest struct {
	UserID string `json:"userId"`
}

// AnalyzeIssues groups a customer's incidents into top categories.
func (h Handlers) AnalyzeIssues(c *gin.Context) {
	if h.Reporting == nil || h.Customers == nil {
		notConfigured(c, "reporting")
		return
	}
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}
	ctx := c.Request.Context()
	if _, err := h.Customers.Customer(ctx, req.UserID); err != nil {
		abortLookup(c, err, "User")
		return
	}
	incidents, err := h.Customers.Incidents(ctx, req.UserID)
	if err != nil {
		abortLookup(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, h.Reporting.TopIssues(ctx, incidents))
}

func (h Handlers) OrderSummary(c *gin.Context) {
	if h.Reporting == nil || h.Customers == nil {
		notConfigured(c, "reporting")
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.Customers.Customer(ctx, id); err != nil {
		abortLookup(c, err, "User")
		return
	}
	orders, err := h.Customers.Orders(ctx, id)
	if err != nil {
		abortLookup(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, h.Reporting.OrderSummary(orders))
}
