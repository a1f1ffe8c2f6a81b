package care

import (
	"telecom-care/internal/intent"
	"telecom-care/internal/offers"
	"telecom-care/internal/prompt"
)

type Channel string

const (
	ChannelWeb      Channel = "web"
	ChannelWhatsApp Channel = "whatsapp"
)

// Request is one inbound customer message.
//
// A nil Confirm proposes an incident when the text describes a problem.
// A non-nil Confirm opens the ticket the customer accepted in a previous turn.
type Request struct {
	CustomerID string
	Phone      string
	Text       string
	Confirm    *intent.IncidentConfirmation
	Channel    Channel
}

// Path names the branch that produced a Response.
type Path string

const (
	PathIncidentProposed Path = "incident_proposed"
	PathIncidentCreated  Path = "incident_created"
	PathIncidentFailed   Path = "incident_failed"
	PathOrderConfirmed   Path = "order_confirmed"
	PathOrderFailed      Path = "order_failed"
	PathRenewalInitiated Path = "renewal_initiated"
	PathRenewalFailed    Path = "renewal_failed"
	PathExpiryNudge      Path = "expiry_nudge"
	PathOffers           Path = "offers"
	PathOffersFailed     Path = "offers_failed"
	PathGenerative       Path = "generative"
	PathGenerativeFailed Path = "generative_failed"
)

// Response is the outcome of one turn. The annotation fields are filled on every path.
type Response struct {
	Reply string `json:"reply"`

	IsOrderIntent    bool                   `json:"isOrderIntent"`
	ProductName      *string                `json:"productName"`
	Plan             *string                `json:"plan"`
	HasExpiringPlan  bool                   `json:"hasExpiringPlan"`
	ExpiringPlan     *prompt.ExpiringPlan   `json:"expiringPlan"`
	HasRenewalIntent bool                   `json:"hasRenewalIntent"`
	RenewalDetails   *intent.RenewalDetails `json:"renewalDetails"`

	OrderPlaced bool   `json:"orderPlaced,omitempty"`
	OrderID     string `json:"orderId,omitempty"`

	IncidentCreated    bool   `json:"incidentCreated,omitempty"`
	IncidentID         string `json:"incidentId,omitempty"`
	ShowIncidentPrompt bool   `json:"showIncidentPrompt,omitempty"`
	Category           string `json:"category,omitempty"`
	Description        string `json:"description,omitempty"`

	ShowCallButton bool `json:"showCallButton,omitempty"`

	HasOffers bool           `json:"hasOffers,omitempty"`
	Offers    []offers.Offer `json:"offers,omitempty"`

	// UsedDefaults is set when an order confirmation fell back to SIM/Unlimited.
	UsedDefaults bool `json:"usedDefaults,omitempty"`

	Path Path `json:"-"`
}

// Wrote reports whether the turn persisted an order or a ticket. Replaying
// such a turn would write it twice.
func (r Response) Wrote() bool {
	return r.OrderPlaced || r.IncidentCreated || r.Path == PathRenewalInitiated
}

// optional maps an empty annotation to JSON null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
