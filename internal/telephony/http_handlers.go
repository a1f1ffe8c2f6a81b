package telephony

import (
	"net/http"

	"telecom-care/pkg/logger"

	"github.com/gin-gonic/gin"
)

// VoiceHandler answers the Twilio voice webhook behind the "call support" button.
type VoiceHandler struct {
	Escalator *Escalator
}

func (h VoiceHandler) HandleInboundCall(c *gin.Context) {
	log := logger.FromGin(c)

	if h.Escalator == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "voice escalation not configured"})
		return
	}

	form, err := ParseVoiceCall(c.Request)
	if err != nil {
		log.Warn("twilio voice webhook parse failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
		return
	}

	decision, err := h.Escalator.Decide(c.Request.Context(), form)
	if err != nil {
		log.Error("caller lookup failed", "call_sid", form.CallSid, "from", logger.Redact(form.From), "err", err)
	}

	twiml, err := RenderTwiML(decision)
	if err != nil {
		log.Error("twiml render failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "twiml failed"})
		return
	}

	log.Info("inbound call routed", "call_sid", form.CallSid, "action", string(decision.Action), "customer_id", decision.CustomerID)
	c.Header("Content-Type", "application/xml")
	c.String(http.StatusOK, twiml)
}
