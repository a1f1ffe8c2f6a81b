package httpapi

import (
	"net/http"
	"strings"

	"telecom-care/internal/audit"
	"telecom-care/internal/customers"
	"telecom-care/pkg/logger"

	"github.com/gin-gonic/gin"
)

// --- Users ---

func (h Handlers) ListUsers(c *gin.Context) {
	if h.Customers == nil {
		notConfigured(c, "customers")
		return
	}
	list, err := h.Customers.List(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("list customers failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetUser returns the customer profile with orders, incidents and invoices.
func (h Handlers) GetUser(c *gin.Context) {
	if h.Customers == nil {
		notConfigured(c, "customers")
		return
	}
	p, err := h.Customers.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortLookup(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, p)
}

// UserHistory returns the audit trail of care actions for one customer.
func (h Handlers) UserHistory(c *gin.Context) {
	if h.Audit == nil {
		notConfigured(c, "audit")
		return
	}
	events, err := h.Audit.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.FromGin(c).Error("audit history failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// --- Orders ---

type createOrderRequest struct {
	UserID      string `json:"userId"`
	ProductName string `json:"productName"`
	Plan        string `json:"plan"`
	Status      string `json:"status"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h Handlers) ListOrders(c *gin.Context) {
	if h.Customers == nil {
		notConfigured(c, "customers")
		return
	}
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing userId parameter"})
		return
	}
	ctx := c.Request.Context()
	if _, err := h.Customers.Customer(ctx, userID); err != nil {
		abortLookup(c, err, "User")
		return
	}
	orders, err := h.Customers.Orders(ctx, userID)
	if err != nil {
		abortLookup(c, err, "User")
		return
	}
	if orders == nil {
		orders = []customers.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

func (h Handlers) CreateOrder(c *gin.Context) {
	if h.Customers == nil {
		notConfigured(c, "customers")
		return
	}
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == "" || strings.TrimSpace(req.ProductName) == "" || strings.TrimSpace(req.Plan) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	status := customers.OrderStatus(req.Status)
	if req.Status != "" && !status.Valid() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Customers.Customer(ctx, req.UserID); err != nil {
		abortLookup(c, err, "User")
		return
	}
	order, err := h.Customers.PlaceOrder(ctx, customers.NewOrder{
		CustomerID:  req.UserID,
		ProductName: strings.TrimSpace(req.ProductName),
		Plan:        strings.TrimSpace(req.Plan),
		Status:      status,
	})
	if err != nil {
		abortLookup(c, err, "User")
		return
	}
	h.recordAudit(c, audit.EventOrderPlaced, order.CustomerID, order.ID, order.ProductName+" / "+order.Plan)
	c.JSON(http.StatusCreated, order)
}

func (h Handlers) UpdateOrderStatus(c *gin.Context) {
	if h.Customers == nil {
		notConfigured(c, "customers")
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	status := customers.OrderStatus(req.Status)
	if !status.Valid() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
		return
	}
	order, err := h.Customers.UpdateOrderStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		abortLookup(c, err, "Order")
		return
	}
	h.recordAudit(c, audit.EventOrderStatusChanged, order.CustomerID, order.ID, string(order.Status))
	c.JSON(http.StatusOK, order)
}

// --- Incidents ---

func (h Handlers) ListIncidents(c *gin.Context) {
	if h.Customers == nil {
		notConfigured(c, "customers")
		return
	}
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing userId parameter"})
		return
	}
	ctx := c.Request.Context()
	if _, err := h.Customers.Customer(ctx, userID); err != nil {
		abortLookup(c, err, "User")
		return
	}
	list, err := h.Customers.Incidents(ctx, userID)
	if err != nil {
		abortLookup(c, err, "User")
		return
	}
	if list == nil {
		list = []customers.Incident{}
	}
	c.JSON(http.StatusOK, list)
}

func (h Handlers) UpdateIncidentStatus(c *gin.Context) {
	if h.Customers == nil {
		notConfigured(c, "customers")
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	status := customers.IncidentStatus(req.Status)
	if !status.Valid() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
		return
	}
	inc, err := h.Customers.UpdateIncidentStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		abortLookup(c, err, "Incident")
		return
	}
	h.recordAudit(c, audit.EventIncidentStatusChanged, inc.CustomerID, inc.ID, string(inc.Status))
	c.JSON(http.StatusOK, inc)
}

func (h Handlers) recordAudit(c *gin.Context, typ audit.EventType, customerID, targetID, msg string) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(c.Request.Context(), typ, customerID, "web", targetID, msg); err != nil {
		logger.FromGin(c).Warn("audit record failed", "type", string(typ), "err", err)
	}
}
