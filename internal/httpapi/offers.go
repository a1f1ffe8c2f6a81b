package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"telecom-care/internal/customers"
	"telecom-care/internal/offers"
	"telecom-care/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ListOffers returns the current catalogue, or the personalized selection
// when userId is given.
func (h Handlers) ListOffers(c *gin.Context) {
	if h.Offers == nil {
		notConfigured(c, "offers")
		return
	}
	ctx := c.Request.Context()
	userID := strings.TrimSpace(c.Query("userId"))

	var (
		list []offers.Offer
		err  error
	)
	if userID == "" {
		list, err = h.Offers.Current(ctx)
	} else {
		if h.Customers != nil {
			if _, lerr := h.Customers.Customer(ctx, userID); lerr != nil {
				abortLookup(c, lerr, "User")
				return
			}
		}
		list, err = h.Offers.Personalized(ctx, userID)
	}
	if errors.Is(err, offers.ErrInvalidArgument) || errors.Is(err, customers.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("offer lookup failed", "personalized", userID != "", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch offers"})
		return
	}
	if list == nil {
		list = []offers.Offer{}
	}
	c.JSON(http.StatusOK, gin.H{"offers": list, "personalized": userID != ""})
}
