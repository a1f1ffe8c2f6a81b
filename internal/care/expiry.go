package care

import (
	"math"
	"time"

	"telecom-care/internal/customers"
	"telecom-care/internal/prompt"
)

const (
	expiryWindowDays = 7
	defaultPlanName  = "Standard"
)

// ExpiringPlan returns the first Active order, in the order given, whose
// service ends in (now, now+7d]. Orders without an out-of-service date end
// one calendar month after they started. The scan is first-match, not soonest.
func ExpiringPlan(orders []customers.Order, now time.Time) *prompt.ExpiringPlan {
	horizon := now.AddDate(0, 0, expiryWindowDays)
	for _, o := range orders {
		if o.Status != customers.OrderStatusActive {
			continue
		}
		exp, ok := effectiveExpiry(o)
		if !ok {
			continue
		}
		if !exp.After(now) || exp.After(horizon) {
			continue
		}
		plan := o.Plan
		if plan == "" {
			plan = defaultPlanName
		}
		return &prompt.ExpiringPlan{
			ProductName:         o.ProductName,
			Plan:                plan,
			DaysUntilExpiration: int(math.Ceil(exp.Sub(now).Hours() / 24)),
		}
	}
	return nil
}

func effectiveExpiry(o customers.Order) (time.Time, bool) {
	if o.OutServiceDate != nil {
		return *o.OutServiceDate, true
	}
	if o.InServiceDate != nil {
		return o.InServiceDate.AddDate(0, 1, 0), true
	}
	return time.Time{}, false
}
