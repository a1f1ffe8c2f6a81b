package intent

// OrderIntent is the result of scanning a message for a new-order request.
// ProductName and Plan are best-effort and may be empty even when IsOrderIntent is true.
type OrderIntent struct {
	IsOrderIntent bool   `json:"isOrderIntent"`
	ProductName   string `json:"productName,omitempty"`
	Plan          string `json:"plan,omitempty"`
}

// IncidentIntent is the result of scanning a message for a reported problem.
type IncidentIntent struct {
	IsIncidentIntent bool   `json:"isIncidentIntent"`
	Category         string `json:"category,omitempty"`
	Description      string `json:"description,omitempty"`

	// Confirmed is true when the message carried the structured incident marker.
	Confirmed bool `json:"-"`
}

// IncidentConfirmation is the structured form of an accepted ticket proposal.
type IncidentConfirmation struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

// RenewalDetails is only produced when both renewal phrasings are present.
type RenewalDetails struct {
	ProductName string `json:"productName"`
	Plan        string `json:"plan"`
}

type OfferIntent struct {
	IsOfferIntent  bool `json:"isOfferIntent"`
	IsPersonalized bool `json:"isPersonalized"`
}

// Signals bundles every classification of a single message.
type Signals struct {
	Order          OrderIntent
	Incident       IncidentIntent
	Renewal        bool
	RenewalDetails *RenewalDetails
	Offer          OfferIntent
	AskingForCare  bool
}

// Incident categories.
const (
	CategoryInternet = "Internet Issues"
	CategoryTV       = "TV Service Issues"
	CategoryPhone    = "Phone Issues"
	CategoryGeneral  = "General"
)

// Product names.
const (
	ProductSIM      = "SIM"
	ProductPhone    = "Phone"
	ProductInternet = "Internet"
	ProductTV       = "TV"
)

// Plan tiers.
const (
	PlanBasic     = "Basic"
	PlanPremium   = "Premium"
	PlanUnlimited = "Unlimited"
	PlanFamily    = "Family"
	PlanSports    = "Sports"
)
