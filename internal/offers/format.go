package offers

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	noPersonalizedReply = "I'm sorry, but you are not yet eligible for any personalized offers. Keep using our services to unlock special offers!"
	noGeneralReply      = "I'm sorry, but there are no offers available at the moment."
)

// Format renders offers as the chat reply. Empty lists get distinct
// messages for the personalized and general paths.
func Format(list []Offer, personalized bool) string {
	if len(list) == 0 {
		if personalized {
			return noPersonalizedReply
		}
		return noGeneralReply
	}

	var b strings.Builder
	if personalized {
		b.WriteString("Here are your personalized offers:\n")
	} else {
		b.WriteString("Here are the current offers:\n")
	}
	for i, o := range list {
		fmt.Fprintf(&b, "%d. **%s**   - %s   - %s%% off on %s %s plan   - Valid until %s\n",
			i+1,
			o.Name,
			o.Description,
			strconv.FormatFloat(o.DiscountPercentage, 'f', -1, 64),
			o.ProductType,
			o.PlanType,
			o.EndDate.Format("1/2/2006"),
		)
	}
	return b.String()
}
