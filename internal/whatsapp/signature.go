package whatsapp

import (
	"net/http"
	"strings"

	"telecom-care/pkg/logger"

	"github.com/gin-gonic/gin"
	twclient "github.com/twilio/twilio-go/client"
)

const signatureHeader = "X-Twilio-Signature"

// RequireSignature rejects webhook calls whose X-Twilio-Signature does not
// match publicBaseURL + request path signed with authToken.
func RequireSignature(authToken, publicBaseURL string) gin.HandlerFunc {
	validator := twclient.NewRequestValidator(authToken)
	base := strings.TrimRight(publicBaseURL, "/")

	return func(c *gin.Context) {
		sig := c.GetHeader(signatureHeader)
		if sig == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "missing signature"})
			return
		}
		if err := c.Request.ParseForm(); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
			return
		}
		params := make(map[string]string, len(c.Request.PostForm))
		for k, v := range c.Request.PostForm {
			if len(v) > 0 {
				params[k] = v[0]
			}
		}

		url := base + c.Request.URL.RequestURI()
		if !validator.Validate(url, params, sig) {
			logger.FromGin(c).Warn("twilio signature rejected", "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid signature"})
			return
		}
		c.Next()
	}
}
