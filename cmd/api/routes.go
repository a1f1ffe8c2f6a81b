package main

import (
	"context"
	"net/http"

	"telecom-care/internal/config"
	"telecom-care/internal/httpapi"
	"telecom-care/internal/metrics"
	"telecom-care/internal/rbac"
	"telecom-care/internal/telephony"
	"telecom-care/internal/whatsapp"

	"github.com/gin-gonic/gin"
)

type deps struct {
	cfg      config.Config
	metrics  *metrics.Metrics
	authMW   gin.HandlerFunc
	api      httpapi.Handlers
	whatsapp whatsapp.Handler
	voice    telephony.VoiceHandler
	health   func(ctx context.Context) error
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, d deps) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		if d.health != nil {
			if err := d.health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(d.metrics.Handler()))

	// Provider webhooks (public, Twilio-signed when enabled).
	signed := []gin.HandlerFunc{}
	if d.cfg.Twilio.ValidateSignature {
		signed = append(signed, whatsapp.RequireSignature(d.cfg.Twilio.AuthToken, d.cfg.Twilio.PublicBaseURL))
	}
	r.POST("/api/whatsapp/webhook", append(signed, d.whatsapp.Webhook)...)
	r.POST("/webhooks/twilio/voice", append(signed, d.voice.HandleInboundCall)...)

	// AUTH routes (token issuance).
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", d.api.Register)
		authGroup.POST("/login", d.api.Login)
		authGroup.POST("/refresh", d.api.Refresh)
	}

	// protected API group
	api := r.Group("/api")
	api.Use(d.authMW, rbac.RequireIdentity(), httpapi.WithAuditActor())
	{
		api.GET("/me", d.api.Me)
		api.POST("/chat", d.api.Chat)
		api.POST("/transcribe", d.api.Transcribe)

		api.GET("/users", d.api.ListUsers)
		api.GET("/users/:id", d.api.GetUser)
		api.GET("/users/:id/history", d.api.UserHistory)
		api.GET("/users/:id/order-summary", d.api.OrderSummary)

		api.GET("/orders", d.api.ListOrders)
		api.POST("/orders", d.api.CreateOrder)
		api.GET("/incidents", d.api.ListIncidents)
		api.GET("/offers", d.api.ListOffers)

		api.POST("/whatsapp/test", d.whatsapp.TestSend)
		api.GET("/whatsapp/registration", d.whatsapp.Registration)
	}

	// Supervisor routes. admin passes every role check.
	sup := api.Group("")
	sup.Use(rbac.RequireAnyRole(rbac.RoleSupervisor))
	{
		sup.PATCH("/orders/:id/status", d.api.UpdateOrderStatus)
		sup.PATCH("/incidents/:id/status", d.api.UpdateIncidentStatus)
		sup.POST("/analyze-issues", d.api.AnalyzeIssues)
	}

	// ADMIN routes
	admin := api.Group("/admin")
	admin.Use(rbac.RequireAnyRole(rbac.RoleAdmin))
	{
		admin.POST("/accounts", d.api.Register)
	}
}
