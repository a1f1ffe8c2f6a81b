package whatsapp

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"telecom-care/internal/care"
	"telecom-care/internal/intent"
	"telecom-care/pkg/logger"

	"github.com/gin-gonic/gin"
)

const replyRegisterFirst = "Welcome! Please register first by visiting our website."

// Responder runs one conversational turn.
type Responder interface {
	Handle(ctx context.Context, req care.Request) (care.Response, error)
}

// RegistrationChecker is implemented by senders that can check sandbox registration.
type RegistrationChecker interface {
	CheckRegistration(ctx context.Context, phone string) Registration
}

type Handler struct {
	Care   Responder
	Sender Sender

	// Dedupe is optional. Without it every delivery is processed.
	Dedupe Deduper
}

// Webhook handles inbound WhatsApp messages from Twilio.
func (h Handler) Webhook(c *gin.Context) {
	log := logger.FromGin(c)

	msg, err := ParseInbound(c.Request)
	if err != nil {
		log.Warn("whatsapp webhook parse failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if msg.IsVerification() {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	if msg.From == "" || msg.Body == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	ctx := c.Request.Context()
	if h.Dedupe != nil && msg.MessageSid != "" {
		first, err := h.Dedupe.FirstSeen(ctx, msg.MessageSid)
		if err != nil {
			log.Warn("whatsapp dedupe check failed", "err", err)
		} else if !first {
			c.JSON(http.StatusOK, gin.H{"success": true, "duplicate": true})
			return
		}
	}

	log.Debug("whatsapp message received", "sid", msg.MessageSid, "from", logger.Redact(msg.From), "media", msg.NumMedia)
	reply, wrote := h.reply(ctx, msg)

	if _, err := h.Sender.Send(ctx, msg.From, reply); err != nil {
		kind := KindOf(err)
		log.Error("whatsapp reply failed", "kind", string(kind), "wrote", wrote, "err", err)
		if wrote || !retryable(err) {
			// A redelivery would repeat the write or fail the same way.
			c.JSON(http.StatusOK, gin.H{"success": false, "delivered": false, "kind": kind})
			return
		}
		h.release(ctx, msg.MessageSid)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "failed to send reply", "kind": kind})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message processed successfully"})
}

// retryable is true for send failures that may clear on a later attempt.
func retryable(err error) bool {
	if errors.Is(err, ErrNotConfigured) {
		return false
	}
	switch KindOf(err) {
	case KindUnavailable, KindUnknown, "":
		return true
	}
	return false
}

func (h Handler) release(ctx context.Context, sid string) {
	if h.Dedupe == nil || sid == "" {
		return
	}
	if err := h.Dedupe.Release(ctx, sid); err != nil {
		logger.From(ctx).Warn("whatsapp dedupe release failed", "sid", sid, "err", err)
	}
}

// reply runs the turn and reports whether it persisted anything.
func (h Handler) reply(ctx context.Context, msg InboundMessage) (string, bool) {
	req := care.Request{Phone: msg.From, Text: msg.Body, Channel: care.ChannelWhatsApp}
	if c, ok := intent.ParseIncidentMarker(msg.Body); ok {
		req.Confirm = &c
	}

	resp, err := h.Care.Handle(ctx, req)
	switch {
	case errors.Is(err, care.ErrCustomerNotFound):
		return replyRegisterFirst, false
	case err != nil:
		logger.From(ctx).Error("whatsapp turn failed", "from", logger.Redact(msg.From), "err", err)
		return care.ReplyUnavailable, false
	}
	return resp.Reply, resp.Wrote()
}

type testSendRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
}

// TestSend sends an arbitrary message, for checking the sandbox wiring.
func (h Handler) TestSend(c *gin.Context) {
	log := logger.FromGin(c)

	var req testSendRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.PhoneNumber) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "phoneNumber and message are required"})
		return
	}

	receipt, err := h.Sender.Send(c.Request.Context(), req.PhoneNumber, req.Message)
	if err != nil {
		var se *SendError
		switch {
		case errors.As(err, &se) && se.Kind != KindUnavailable && se.Kind != KindUnknown:
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": se.UserMessage, "kind": se.Kind})
		case errors.Is(err, ErrNotConfigured):
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "whatsapp not configured"})
		default:
			log.Error("whatsapp test send failed", "err", err)
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "failed to send message"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messageId": receipt.SID})
}

// Registration reports whether a number has joined the sandbox.
func (h Handler) Registration(c *gin.Context) {
	p, ok := h.Sender.(RegistrationChecker)
	if !ok {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "whatsapp not configured"})
		return
	}
	phone := strings.TrimSpace(c.Query("phoneNumber"))
	if phone == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "phoneNumber is required"})
		return
	}
	c.JSON(http.StatusOK, p.CheckRegistration(c.Request.Context(), phone))
}
