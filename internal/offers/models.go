package offers

import (
	"strings"
	"time"
)

// EligibilityCondition gates a personalized offer on purchase history.
type EligibilityCondition struct {
	// MinPurchaseCount is the number of past orders for the offer's
	// (product type, plan type) pair the customer must hold.
	MinPurchaseCount int `json:"minPurchaseCount"`
}

type Offer struct {
	ID                 string                `json:"id" db:"id"`
	Name               string                `json:"name" db:"name"`
	Description        string                `json:"description" db:"description"`
	DiscountPercentage float64               `json:"discountPercentage" db:"discount_percentage"`
	ProductType        string                `json:"productType" db:"product_type"`
	PlanType           string                `json:"planType" db:"plan_type"`
	StartDate          time.Time             `json:"startDate" db:"start_date"`
	EndDate            time.Time             `json:"endDate" db:"end_date"`
	IsActive           bool                  `json:"isActive" db:"is_active"`
	Personalized       bool                  `json:"personalized" db:"personalized"`
	Eligibility        *EligibilityCondition `json:"conditions,omitempty" db:"min_purchase_count"`
	CreatedAt          time.Time             `json:"createdAt" db:"created_at"`
}

// Live reports whether the offer is active and now falls inside [StartDate, EndDate].
func (o Offer) Live(now time.Time) bool {
	return o.IsActive && !now.Before(o.StartDate) && !now.After(o.EndDate)
}

// Matches reports whether a purchase of product/plan counts toward this offer.
func (o Offer) Matches(product, plan string) bool {
	return strings.EqualFold(strings.TrimSpace(o.ProductType), strings.TrimSpace(product)) &&
		strings.EqualFold(strings.TrimSpace(o.PlanType), strings.TrimSpace(plan))
}

func (o Offer) minPurchaseCount() int {
	if o.Eligibility == nil {
		return 0
	}
	return o.Eligibility.MinPurchaseCount
}
