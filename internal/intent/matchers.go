package intent

import (
	"regexp"
	"strings"
)

// MarkerPrefix opens the textual incident confirmation sent by chat clients.
const MarkerPrefix = "[INCIDENT]"

var (
	orderQueryKeywords = []string{
		"recent order", "old orders", "order history", "previous orders",
		"all orders", "past orders", "show", "latest", "last", "previous", "order details",
	}
	orderActionKeywords = []string{
		"place order", "buy", "purchase", "subscribe", "sign up", "get a new",
	}

	incidentKeywords = []string{
		"problem", "issue", "not working", "broken", "error",
		"slow", "disconnected", "poor signal", "no signal",
		"complaint", "help", "support", "trouble", "report issue",
	}

	renewalKeywords = []string{"renew", "renewal", "extend", "continue", "expiring", "expire"}

	currentOfferKeywords = []string{
		"current offers", "available offers", "what offers", "show offers", "list offers",
	}
	personalizedOfferKeywords = []string{
		"offer for me", "personalized offer", "special offer", "any offer for me", "do you have any offer",
	}

	botEscalationKeywords = []string{
		"real person", "human agent", "customer service representative", "speak to someone",
		"talk to someone", "connect with an agent", "transfer to an agent", "escalate",
		"complex issue", "complicated problem", "technical support", "billing department",
		"account specialist",
	}
	userEscalationKeywords = []string{
		"customer care", "customer service", "support agent", "help desk", "call center",
		"contact support", "get help", "speak to someone", "talk to someone", "human",
		"agent", "representative", "operator",
	}
)

// family maps a keyword set onto a canonical value. Families are checked in order.
type family struct {
	value    string
	keywords []string
}

var productFamilies = []family{
	{ProductSIM, []string{"sim", "esim"}},
	{ProductPhone, []string{"phone", "iphone", "samsung"}},
	{ProductInternet, []string{"internet", "wifi", "broadband"}},
	{ProductTV, []string{"tv", "television"}},
}

var planFamilies = []family{
	{PlanUnlimited, []string{"unlimited"}},
	{PlanBasic, []string{"basic"}},
	{PlanPremium, []string{"premium"}},
	{PlanFamily, []string{"family"}},
}

var categoryFamilies = []family{
	{CategoryInternet, []string{"internet", "wifi", "connection"}},
	{CategoryTV, []string{"tv", "television", "channel"}},
	{CategoryPhone, []string{"phone", "call", "signal"}},
}

var (
	markerPattern       = regexp.MustCompile(`\[INCIDENT\] Category: (.*?) - (.*)`)
	renewProductPattern = regexp.MustCompile(`(?i)renew my (.*?) plan`)
	renewPlanPattern    = regexp.MustCompile(`(?i)with the (.*?) option`)
)

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func firstFamily(s string, families []family) string {
	for _, f := range families {
		if containsAny(s, f.keywords) {
			return f.value
		}
	}
	return ""
}

// DetectOrder reports whether text asks for a new order. Questions about
// existing orders never count, even when they also contain an action keyword.
func DetectOrder(text string) OrderIntent {
	lower := strings.ToLower(text)
	if containsAny(lower, orderQueryKeywords) {
		return OrderIntent{}
	}
	if !containsAny(lower, orderActionKeywords) {
		return OrderIntent{}
	}
	return OrderIntent{
		IsOrderIntent: true,
		ProductName:   firstFamily(lower, productFamilies),
		Plan:          firstFamily(lower, planFamilies),
	}
}

// DetectIncident recognises both the structured confirmation marker and free-text problem reports.
func DetectIncident(text string) IncidentIntent {
	if c, ok := ParseIncidentMarker(text); ok {
		return IncidentIntent{
			IsIncidentIntent: true,
			Category:         c.Category,
			Description:      c.Description,
			Confirmed:        true,
		}
	}

	lower := strings.ToLower(text)
	if !containsAny(lower, incidentKeywords) {
		return IncidentIntent{}
	}

	category := firstFamily(lower, categoryFamilies)
	if category == "" {
		category = CategoryGeneral
	}
	return IncidentIntent{
		IsIncidentIntent: true,
		Category:         category,
		Description:      text,
		Confirmed:        strings.HasPrefix(text, MarkerPrefix),
	}
}

// ParseIncidentMarker decodes "[INCIDENT] Category: <cat> - <desc>".
func ParseIncidentMarker(text string) (IncidentConfirmation, bool) {
	if !strings.HasPrefix(text, MarkerPrefix) {
		return IncidentConfirmation{}, false
	}
	m := markerPattern.FindStringSubmatch(text)
	if m == nil {
		return IncidentConfirmation{}, false
	}
	return IncidentConfirmation{Category: m[1], Description: m[2]}, true
}

// FormatIncidentMarker is the inverse of ParseIncidentMarker.
func FormatIncidentMarker(c IncidentConfirmation) string {
	return MarkerPrefix + " Category: " + c.Category + " - " + c.Description
}

func DetectRenewal(text string) bool {
	return containsAny(strings.ToLower(text), renewalKeywords)
}

// ExtractRenewalDetails returns nil unless both "renew my <product> plan"
// and "with the <plan> option" are present.
func ExtractRenewalDetails(text string) *RenewalDetails {
	p := renewProductPattern.FindStringSubmatch(text)
	o := renewPlanPattern.FindStringSubmatch(text)
	if p == nil || o == nil {
		return nil
	}
	return &RenewalDetails{
		ProductName: strings.TrimSpace(p[1]),
		Plan:        strings.TrimSpace(o[1]),
	}
}

func DetectOffer(text string) OfferIntent {
	lower := strings.ToLower(text)
	current := containsAny(lower, currentOfferKeywords)
	personalized := containsAny(lower, personalizedOfferKeywords)
	return OfferIntent{
		IsOfferIntent:  current || personalized,
		IsPersonalized: personalized,
	}
}

// NeedsRealCustomerCare inspects an outgoing assistant reply for hand-off language.
func NeedsRealCustomerCare(botText string) bool {
	return containsAny(strings.ToLower(botText), botEscalationKeywords)
}

// IsAskingForCustomerCare inspects an incoming user message for a request to reach a person.
func IsAskingForCustomerCare(userText string) bool {
	return containsAny(strings.ToLower(userText), userEscalationKeywords)
}

// Classify runs every matcher over text.
func Classify(text string) Signals {
	return Signals{
		Order:          DetectOrder(text),
		Incident:       DetectIncident(text),
		Renewal:        DetectRenewal(text),
		RenewalDetails: ExtractRenewalDetails(text),
		Offer:          DetectOffer(text),
		AskingForCare:  IsAskingForCustomerCare(text),
	}
}
