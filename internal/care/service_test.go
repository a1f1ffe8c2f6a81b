package care

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"telecom-care/internal/audit"
	"telecom-care/internal/customers"
	"telecom-care/internal/intent"
	"telecom-care/internal/metrics"
	"telecom-care/internal/offers"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeGenerator struct {
	out    string
	err    error
	prompt string
	calls  int
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.out, f.err
}

type fixture struct {
	repo   *customers.MemoryRepo
	offers *offers.MemoryRepo
	audit  *audit.MemoryRepo
	gen    *fakeGenerator
	svc    *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := customers.NewMemoryRepo()
	repo.AddCustomer(customers.Customer{ID: "c1", Name: "Anna de Vries", Email: "anna@example.com", PhoneNumber: "+31612345678"})

	cust := customers.NewService(repo).WithClock(func() time.Time { return testNow })
	offRepo := offers.NewMemoryRepo()
	offs := offers.NewService(offRepo, cust, nil).WithClock(func() time.Time { return testNow })
	auditRepo := audit.NewMemoryRepo()
	gen := &fakeGenerator{out: "Hello Anna"}

	svc := NewService(cust, offs, gen).
		WithAudit(audit.NewService(auditRepo)).
		WithMetrics(metrics.New())
	return &fixture{repo: repo, offers: offRepo, audit: auditRepo, gen: gen, svc: svc}
}

func (f *fixture) handle(t *testing.T, text string) Response {
	t.Helper()
	resp, err := f.svc.Handle(context.Background(), Request{CustomerID: "c1", Text: text, Channel: ChannelWeb})
	if err != nil {
		t.Fatalf("handle %q: %v", text, err)
	}
	return resp
}

func (f *fixture) incidents(t *testing.T) []customers.Incident {
	t.Helper()
	list, err := f.repo.ListIncidents(context.Background(), "c1")
	if err != nil {
		t.Fatalf("list incidents: %v", err)
	}
	return list
}

func (f *fixture) orders(t *testing.T) []customers.Order {
	t.Helper()
	list, err := f.repo.ListOrders(context.Background(), "c1")
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	return list
}

func TestHandle_ProblemReportProposesTicketWithoutCreatingIt(t *testing.T) {
	f := newFixture(t)

	resp := f.handle(t, "My internet is broken")
	if !resp.ShowIncidentPrompt || resp.IncidentCreated {
		t.Fatalf("expected a ticket proposal, got %+v", resp)
	}
	if !strings.Contains(resp.Reply, "Restart your router") {
		t.Fatalf("expected internet troubleshooting tips, got %q", resp.Reply)
	}
	if resp.Category != intent.CategoryInternet || resp.Description != "My internet is broken" {
		t.Fatalf("unexpected category/description %q %q", resp.Category, resp.Description)
	}
	if n := len(f.incidents(t)); n != 0 {
		t.Fatalf("expected no incident yet, got %d", n)
	}
	if f.gen.calls != 0 {
		t.Fatalf("generative backend must not be called")
	}
}

func TestHandle_MarkerCreatesIncident(t *testing.T) {
	f := newFixture(t)

	resp := f.handle(t, "[INCIDENT] Category: Internet Issues - My internet is broken")
	if !resp.IncidentCreated || resp.IncidentID == "" {
		t.Fatalf("expected incident created, got %+v", resp)
	}
	if !strings.Contains(resp.Reply, "**"+resp.IncidentID+"**") {
		t.Fatalf("expected reply to embed incident id, got %q", resp.Reply)
	}
	if !strings.HasPrefix(resp.Reply, "I've created an incident ticket for your internet issues issue.") {
		t.Fatalf("unexpected reply %q", resp.Reply)
	}
	if !resp.ShowCallButton {
		t.Fatalf("expected call button")
	}

	incs := f.incidents(t)
	if len(incs) != 1 {
		t.Fatalf("expected 1 incident, got %d", len(incs))
	}
	if incs[0].Status != customers.IncidentStatusOpen {
		t.Fatalf("expected Open, got %s", incs[0].Status)
	}
	if incs[0].Description != "[Internet Issues] My internet is broken" {
		t.Fatalf("unexpected description %q", incs[0].Description)
	}

	evs := f.audit.Events()
	if len(evs) != 1 || evs[0].Type != audit.EventIncidentCreated || evs[0].TargetID != resp.IncidentID {
		t.Fatalf("expected incident audit event, got %+v", evs)
	}
}

func TestHandle_StructuredConfirmationCreatesIncident(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Handle(context.Background(), Request{
		CustomerID: "c1",
		Confirm:    &intent.IncidentConfirmation{Category: intent.CategoryTV, Description: "No picture"},
		Channel:    ChannelWeb,
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !resp.IncidentCreated || !strings.Contains(resp.Reply, "Restart your TV box") {
		t.Fatalf("unexpected response %+v", resp)
	}
	if incs := f.incidents(t); len(incs) != 1 || incs[0].Description != "[TV Service Issues] No picture" {
		t.Fatalf("unexpected incidents %+v", incs)
	}
}

func TestHandle_ConfirmOrderPlacesActiveOrder(t *testing.T) {
	f := newFixture(t)

	resp := f.handle(t, "Confirm order: Yes, product: SIM, plan: Unlimited")
	if !resp.OrderPlaced || resp.OrderID == "" {
		t.Fatalf("expected order placed, got %+v", resp)
	}
	if resp.UsedDefaults {
		t.Fatalf("slots were present; defaults must not be flagged")
	}
	want := "Great! Your order for **SIM** with the **Unlimited** plan has been confirmed. Your order number is **" + resp.OrderID + "**."
	if !strings.HasPrefix(resp.Reply, want) {
		t.Fatalf("unexpected reply %q", resp.Reply)
	}

	orders := f.orders(t)
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	o := orders[0]
	if o.Status != customers.OrderStatusActive || o.InServiceDate == nil || !o.InServiceDate.Equal(testNow) {
		t.Fatalf("expected Active order starting today, got %+v", o)
	}
}

func TestHandle_ConfirmOrderFallsBackToDefaults(t *testing.T) {
	f := newFixture(t)

	resp := f.handle(t, "confirm order yes please")
	if !resp.OrderPlaced || !resp.UsedDefaults {
		t.Fatalf("expected defaulted order, got %+v", resp)
	}
	o := f.orders(t)[0]
	if o.ProductName != "SIM" || o.Plan != "Unlimited" {
		t.Fatalf("expected SIM/Unlimited, got %s/%s", o.ProductName, o.Plan)
	}
}

func TestHandle_RenewalCreatesPendingOrder(t *testing.T) {
	f := newFixture(t)

	resp := f.handle(t, "I want to renew my Internet plan with the Premium option")
	if !resp.HasRenewalIntent || resp.RenewalDetails == nil {
		t.Fatalf("expected renewal intent, got %+v", resp)
	}
	if resp.Reply != "I've initiated the renewal process for your Internet plan with the Premium option. Would you like me to confirm the renewal now?" {
		t.Fatalf("unexpected reply %q", resp.Reply)
	}
	orders := f.orders(t)
	if len(orders) != 1 || orders[0].Status != customers.OrderStatusPending {
		t.Fatalf("expected one Pending order, got %+v", orders)
	}
	if orders[0].ProductName != "Internet" || orders[0].Plan != "Premium" || resp.OrderID != orders[0].ID {
		t.Fatalf("unexpected order %+v", orders[0])
	}
}

func TestHandle_ListsCurrentOffers(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"Spring Deal", "Family Bonus"} {
		f.offers.Add(offers.Offer{
			ID: name, Name: name, Description: "d", DiscountPercentage: 10,
			ProductType: "SIM", PlanType: "Basic", IsActive: true,
			StartDate: testNow.AddDate(0, 0, -1), EndDate: testNow.AddDate(0, 1, 0),
		})
	}
	f.offers.Add(offers.Offer{ID: "old", Name: "Old", IsActive: true, StartDate: testNow.AddDate(-1, 0, 0), EndDate: testNow.AddDate(0, 0, -1)})

	resp := f.handle(t, "What are your current offers?")
	if !resp.HasOffers || len(resp.Offers) != 2 {
		t.Fatalf("expected 2 offers, got %+v", resp.Offers)
	}
	if !strings.Contains(resp.Reply, "Spring Deal") || !strings.Contains(resp.Reply, "Family Bonus") {
		t.Fatalf("expected both offers in reply, got %q", resp.Reply)
	}
}

func TestHandle_EmptyOfferRepliesDiffer(t *testing.T) {
	f := newFixture(t)

	general := f.handle(t, "list offers")
	personal := f.handle(t, "any offer for me?")
	if general.HasOffers || personal.HasOffers {
		t.Fatalf("expected no offers")
	}
	if general.Reply == personal.Reply {
		t.Fatalf("expected distinct empty replies, both %q", general.Reply)
	}
}

func TestHandle_PersistenceFailureBecomesApology(t *testing.T) {
	f := newFixture(t)
	f.repo.FailCreates = errors.New("db down")

	inc := f.handle(t, "[INCIDENT] Category: Phone Issues - no calls")
	if inc.Reply != ReplyIncidentError || !inc.ShowCallButton || inc.IncidentCreated {
		t.Fatalf("unexpected incident failure response %+v", inc)
	}

	ord := f.handle(t, "Confirm order: Yes, product: TV, plan: Sports")
	if ord.Reply != ReplyOrderError || !ord.ShowCallButton || ord.OrderPlaced {
		t.Fatalf("unexpected order failure response %+v", ord)
	}

	ren := f.handle(t, "Please renew my TV plan with the Sports option")
	if ren.Reply != ReplyRenewalError || !ren.ShowCallButton || ren.HasRenewalIntent {
		t.Fatalf("unexpected renewal failure response %+v", ren)
	}
	if len(f.audit.Events()) != 0 {
		t.Fatalf("failed writes must not be audited")
	}
}

func TestHandle_ExpiryNudgeWhenRenewalDetailsMissing(t *testing.T) {
	f := newFixture(t)
	in := testNow.AddDate(0, -1, 3)
	f.repo.AddOrder(customers.Order{ID: "o1", CustomerID: "c1", ProductName: "Internet", Plan: "Basic", Status: customers.OrderStatusActive, InServiceDate: &in})

	nudge := f.handle(t, "can I extend?")
	if nudge.Path != PathExpiryNudge {
		t.Fatalf("expected expiry nudge, got %s", nudge.Path)
	}
	if nudge.Reply != "I noticed your Internet plan with the Basic option will expire in 3 days. Would you like to renew it?" {
		t.Fatalf("unexpected nudge %q", nudge.Reply)
	}
	if f.gen.calls != 0 || len(f.orders(t)) != 1 {
		t.Fatalf("nudge must not call the backend or create orders")
	}
}

func TestHandle_GenerativeFallback(t *testing.T) {
	f := newFixture(t)
	f.gen.out = "```\nHere you go:\n- item one\n3. step\n```"

	resp := f.handle(t, "I want to buy a new phone with the family plan")
	if resp.Path != PathGenerative {
		t.Fatalf("expected generative path, got %s", resp.Path)
	}
	if resp.Reply != "Here you go:\n- item one\n1. step" {
		t.Fatalf("unexpected cleaned reply %q", resp.Reply)
	}
	if !resp.IsOrderIntent || resp.ProductName == nil || *resp.ProductName != "Phone" || resp.Plan == nil || *resp.Plan != "Family" {
		t.Fatalf("expected order annotations, got %+v", resp)
	}
	if !strings.Contains(f.gen.prompt, "Anna de Vries") || !strings.Contains(f.gen.prompt, "Confirm order: Yes") {
		t.Fatalf("prompt missing customer data or order block")
	}
}

func TestHandle_GenerativeFailureBecomesApology(t *testing.T) {
	f := newFixture(t)
	f.gen.err = errors.New("backend down")

	resp := f.handle(t, "How much is my bill?")
	if resp.Reply != ReplyUnavailable || !resp.ShowCallButton {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestHandle_PrecedenceIncidentBeatsOrderConfirmation(t *testing.T) {
	f := newFixture(t)

	resp := f.handle(t, "There is a problem, confirm order yes")
	if resp.Path != PathIncidentProposed {
		t.Fatalf("expected incident proposal, got %s", resp.Path)
	}
	if len(f.orders(t)) != 0 {
		t.Fatalf("order must not be placed")
	}
}

func TestHandle_ExplicitRenewalBeatsExpiryNudge(t *testing.T) {
	f := newFixture(t)
	in := testNow.AddDate(0, -1, 2)
	f.repo.AddOrder(customers.Order{ID: "o1", CustomerID: "c1", ProductName: "TV", Plan: "Sports", Status: customers.OrderStatusActive, InServiceDate: &in})

	resp := f.handle(t, "renew my TV plan with the Sports option")
	if resp.Path != PathRenewalInitiated {
		t.Fatalf("expected renewal, got %s", resp.Path)
	}
	if !resp.HasExpiringPlan || resp.ExpiringPlan == nil || resp.ExpiringPlan.DaysUntilExpiration != 2 {
		t.Fatalf("expected expiring plan annotation, got %+v", resp.ExpiringPlan)
	}
}

func TestHandle_CallButtonForCareRequests(t *testing.T) {
	f := newFixture(t)

	resp := f.handle(t, "Can I speak to a representative?")
	if !resp.ShowCallButton {
		t.Fatalf("expected call button when customer asks for a person")
	}

	f.gen.out = "Let me connect you with a human agent."
	resp = f.handle(t, "What is my balance?")
	if !resp.ShowCallButton {
		t.Fatalf("expected call button when the reply suggests a hand-off")
	}
}

func TestHandle_LookupByPhoneAndUnknownCustomer(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Handle(context.Background(), Request{Phone: "whatsapp:+31612345678", Text: "What is my balance?", Channel: ChannelWhatsApp})
	if err != nil {
		t.Fatalf("handle by phone: %v", err)
	}
	if resp.Reply != "Hello Anna" {
		t.Fatalf("unexpected reply %q", resp.Reply)
	}

	if _, err := f.svc.Handle(context.Background(), Request{Phone: "+100", Text: "hi"}); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
	if _, err := f.svc.Handle(context.Background(), Request{CustomerID: "nope", Text: "hi"}); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
	if _, err := f.svc.Handle(context.Background(), Request{CustomerID: "c1"}); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestHandle_OrderAnnotationsAreNullWithoutOrderIntent(t *testing.T) {
	f := newFixture(t)

	resp := f.handle(t, "hello there")
	if resp.ProductName != nil || resp.Plan != nil {
		t.Fatalf("expected nil annotations, got %v %v", resp.ProductName, resp.Plan)
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"productName":null`) || !strings.Contains(string(raw), `"plan":null`) {
		t.Fatalf("expected null annotations, got %s", raw)
	}
	if resp.Wrote() {
		t.Fatalf("a generative turn writes nothing")
	}
}

func TestResponse_Wrote(t *testing.T) {
	f := newFixture(t)
	if resp := f.handle(t, "[INCIDENT] Category: TV Issues - no signal"); !resp.Wrote() {
		t.Fatalf("incident creation must count as a write")
	}
	if resp := f.handle(t, "My TV has no signal"); resp.Wrote() {
		t.Fatalf("a ticket proposal writes nothing")
	}
}
