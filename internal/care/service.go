package care

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"telecom-care/internal/audit"
	"telecom-care/internal/customers"
	"telecom-care/internal/genai"
	"telecom-care/internal/intent"
	"telecom-care/internal/metrics"
	"telecom-care/internal/offers"
	"telecom-care/internal/prompt"
	"telecom-care/pkg/logger"
)

var (
	ErrCustomerNotFound = errors.New("care: customer not found")
	ErrEmptyMessage     = errors.New("care: empty message")
)

// Recorder receives an audit event for each change made on a customer's behalf.
type Recorder interface {
	Record(ctx context.Context, typ audit.EventType, customerID, channel, targetID, message string) error
}

// Service picks exactly one response path per message. It holds no
// per-request state; one instance serves every transport.
type Service struct {
	customers *customers.Service
	offers    *offers.Service
	gen       genai.Generator
	audit     Recorder
	metrics   *metrics.Metrics
	clock     func() time.Time
}

func NewService(cust *customers.Service, offs *offers.Service, gen genai.Generator) *Service {
	return &Service{customers: cust, offers: offs, gen: gen, clock: cust.Now}
}

func (s *Service) WithAudit(r Recorder) *Service {
	s.audit = r
	return s
}

func (s *Service) WithMetrics(m *metrics.Metrics) *Service {
	s.metrics = m
	return s
}

func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

var (
	productSlot = regexp.MustCompile(`(?i)product:\s*([^,]+)`)
	planSlot    = regexp.MustCompile(`(?i)plan:\s*([^,]+)`)
)

// Handle runs one conversational turn. Only lookup failures are returned as
// errors; every failure after the customer is known becomes a reply.
func (s *Service) Handle(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.Text) == "" && req.Confirm == nil {
		return Response{}, ErrEmptyMessage
	}

	profile, err := s.profile(ctx, req)
	if err != nil {
		return Response{}, err
	}
	log := logger.From(ctx).With("customer_id", profile.Customer.ID, "channel", string(req.Channel))
	ctx = logger.With(ctx, log)

	sig := intent.Classify(req.Text)
	expiring := ExpiringPlan(profile.Orders, s.clock())
	s.countIntents(sig)

	resp := Response{
		IsOrderIntent:    sig.Order.IsOrderIntent,
		ProductName:      optional(sig.Order.ProductName),
		Plan:             optional(sig.Order.Plan),
		HasExpiringPlan:  expiring != nil,
		ExpiringPlan:     expiring,
		HasRenewalIntent: sig.Renewal,
		RenewalDetails:   sig.RenewalDetails,
	}

	confirm := req.Confirm
	if confirm == nil && sig.Incident.Confirmed {
		confirm = &intent.IncidentConfirmation{Category: sig.Incident.Category, Description: sig.Incident.Description}
	}

	lower := strings.ToLower(req.Text)
	switch {
	case confirm != nil:
		s.createIncident(ctx, req, profile.Customer.ID, *confirm, &resp)
	case sig.Incident.IsIncidentIntent:
		resp.Reply = proposalReply(sig.Incident.Category)
		resp.ShowIncidentPrompt = true
		resp.Category = sig.Incident.Category
		resp.Description = sig.Incident.Description
		resp.Path = PathIncidentProposed
	case strings.Contains(lower, "confirm order") && strings.Contains(lower, "yes"):
		s.confirmOrder(ctx, req, profile.Customer.ID, &resp)
	case sig.Renewal && sig.RenewalDetails != nil:
		s.renew(ctx, req, profile.Customer.ID, *sig.RenewalDetails, &resp)
	case expiring != nil:
		resp.Reply = expiryReply(expiring.ProductName, expiring.Plan, expiring.DaysUntilExpiration)
		resp.Path = PathExpiryNudge
	case sig.Offer.IsOfferIntent:
		s.listOffers(ctx, profile.Customer.ID, sig.Offer.IsPersonalized, &resp)
	default:
		s.generate(ctx, req.Text, profile, sig.Order, expiring, &resp)
	}

	if sig.AskingForCare || intent.NeedsRealCustomerCare(resp.Reply) {
		resp.ShowCallButton = true
	}
	s.metrics.IncTurn(string(req.Channel), string(resp.Path))
	return resp, nil
}

func (s *Service) profile(ctx context.Context, req Request) (customers.Profile, error) {
	var (
		p   customers.Profile
		err error
	)
	switch {
	case req.CustomerID != "":
		p, err = s.customers.Profile(ctx, req.CustomerID)
	case req.Phone != "":
		p, err = s.customers.ProfileByPhone(ctx, req.Phone)
	default:
		return customers.Profile{}, ErrCustomerNotFound
	}
	if errors.Is(err, customers.ErrNotFound) || errors.Is(err, customers.ErrInvalidArgument) {
		return customers.Profile{}, ErrCustomerNotFound
	}
	if err != nil {
		return customers.Profile{}, fmt.Errorf("load customer: %w", err)
	}
	return p, nil
}

func (s *Service) createIncident(ctx context.Context, req Request, customerID string, c intent.IncidentConfirmation, resp *Response) {
	category := strings.TrimSpace(c.Category)
	if category == "" {
		category = intent.CategoryGeneral
	}
	inc, err := s.customers.OpenIncident(ctx, customers.NewIncident{
		CustomerID:  customerID,
		Description: fmt.Sprintf("[%s] %s", category, c.Description),
		Status:      customers.IncidentStatusOpen,
	})
	resp.ShowCallButton = true
	if err != nil {
		logger.From(ctx).Error("incident creation failed", "path", PathIncidentFailed, "err", err)
		resp.Reply = ReplyIncidentError
		resp.Path = PathIncidentFailed
		return
	}
	resp.Reply = incidentCreatedReply(category, inc.ID)
	resp.IncidentCreated = true
	resp.IncidentID = inc.ID
	resp.Path = PathIncidentCreated
	s.record(ctx, audit.EventIncidentCreated, customerID, req.Channel, inc.ID, category)
}

func (s *Service) confirmOrder(ctx context.Context, req Request, customerID string, resp *Response) {
	product, plan, defaulted := orderSlots(req.Text)
	if defaulted {
		// Known gap: a malformed confirmation still orders SIM/Unlimited.
		logger.From(ctx).Warn("order confirmation fell back to default product or plan", "product", product, "plan", plan)
		resp.UsedDefaults = true
	}

	order, err := s.customers.PlaceOrder(ctx, customers.NewOrder{
		CustomerID:  customerID,
		ProductName: product,
		Plan:        plan,
		Status:      customers.OrderStatusActive,
	})
	if err != nil {
		logger.From(ctx).Error("order placement failed", "path", PathOrderFailed, "err", err)
		resp.Reply = ReplyOrderError
		resp.ShowCallButton = true
		resp.Path = PathOrderFailed
		return
	}
	resp.Reply = orderConfirmedReply(product, plan, order.ID)
	resp.OrderPlaced = true
	resp.OrderID = order.ID
	resp.Path = PathOrderConfirmed
	s.record(ctx, audit.EventOrderPlaced, customerID, req.Channel, order.ID, product+" / "+plan)
}

// orderSlots pulls product and plan out of a confirmation message,
// falling back to SIM and Unlimited for whichever is missing.
func orderSlots(text string) (product, plan string, defaulted bool) {
	product, plan = intent.ProductSIM, intent.PlanUnlimited
	if m := productSlot.FindStringSubmatch(text); m != nil && strings.TrimSpace(m[1]) != "" {
		product = strings.TrimSpace(m[1])
	} else {
		defaulted = true
	}
	if m := planSlot.FindStringSubmatch(text); m != nil && strings.TrimSpace(m[1]) != "" {
		plan = strings.TrimSpace(m[1])
	} else {
		defaulted = true
	}
	return product, plan, defaulted
}

func (s *Service) renew(ctx context.Context, req Request, customerID string, d intent.RenewalDetails, resp *Response) {
	order, err := s.customers.PlaceOrder(ctx, customers.NewOrder{
		CustomerID:  customerID,
		ProductName: d.ProductName,
		Plan:        d.Plan,
		Status:      customers.OrderStatusPending,
	})
	if err != nil {
		logger.From(ctx).Error("renewal order failed", "path", PathRenewalFailed, "err", err)
		resp.Reply = ReplyRenewalError
		resp.HasRenewalIntent = false
		resp.ShowCallButton = true
		resp.Path = PathRenewalFailed
		return
	}
	resp.Reply = renewalReply(d.ProductName, d.Plan)
	resp.OrderID = order.ID
	resp.IsOrderIntent = true
	resp.ProductName = optional(d.ProductName)
	resp.Plan = optional(d.Plan)
	resp.Path = PathRenewalInitiated
	s.record(ctx, audit.EventRenewalInitiated, customerID, req.Channel, order.ID, d.ProductName+" / "+d.Plan)
}

func (s *Service) listOffers(ctx context.Context, customerID string, personalized bool, resp *Response) {
	var (
		list []offers.Offer
		err  error
	)
	if personalized {
		list, err = s.offers.Personalized(ctx, customerID)
	} else {
		list, err = s.offers.Current(ctx)
	}
	if err != nil {
		logger.From(ctx).Error("offer lookup failed", "path", PathOffersFailed, "personalized", personalized, "err", err)
		resp.Reply = ReplyUnavailable
		resp.ShowCallButton = true
		resp.Path = PathOffersFailed
		return
	}
	resp.Reply = offers.Format(list, personalized)
	resp.HasOffers = len(list) > 0
	resp.Offers = list
	resp.Path = PathOffers
}

func (s *Service) generate(ctx context.Context, text string, p customers.Profile, oi intent.OrderIntent, ep *prompt.ExpiringPlan, resp *Response) {
	out, err := s.gen.Generate(ctx, prompt.Build(prompt.Input{
		Message:      text,
		Profile:      p,
		OrderIntent:  oi,
		ExpiringPlan: ep,
	}))
	if err != nil {
		logger.From(ctx).Error("generative backend failed", "path", PathGenerativeFailed, "err", err)
		resp.Reply = ReplyUnavailable
		resp.ShowCallButton = true
		resp.Path = PathGenerativeFailed
		return
	}
	resp.Reply = prompt.Clean(out)
	resp.Path = PathGenerative
}

func (s *Service) record(ctx context.Context, typ audit.EventType, customerID string, ch Channel, targetID, msg string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, typ, customerID, string(ch), targetID, msg); err != nil {
		logger.From(ctx).Warn("audit record failed", "type", string(typ), "err", err)
	}
}

func (s *Service) countIntents(sig intent.Signals) {
	if sig.Order.IsOrderIntent {
		s.metrics.IncIntent("order")
	}
	if sig.Incident.IsIncidentIntent {
		s.metrics.IncIntent("incident")
	}
	if sig.Renewal {
		s.metrics.IncIntent("renewal")
	}
	if sig.Offer.IsOfferIntent {
		s.metrics.IncIntent("offer")
	}
	if sig.AskingForCare {
		s.metrics.IncIntent("customer_care")
	}
}
