package customers

import (
	"context"
	"errors"
	"testing"
	"time"
)

func seededService(t *testing.T) (*Service, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	repo.AddCustomer(Customer{ID: "c1", Name: "Anna de Vries", Email: "anna@example.com", PhoneNumber: "+31612345678"})
	repo.AddInvoiceLine(InvoiceLine{ID: "l1", CustomerID: "c1", InvoiceID: "inv1", Description: "Internet", Amount: 20})
	return NewService(repo), repo
}

func TestService_ProfileByPhoneStripsChannelPrefix(t *testing.T) {
	svc, _ := seededService(t)

	p, err := svc.ProfileByPhone(context.Background(), "whatsapp:+31612345678")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.Customer.ID != "c1" {
		t.Fatalf("expected c1, got %q", p.Customer.ID)
	}
	if len(p.Invoices) != 1 {
		t.Fatalf("expected invoices loaded, got %d", len(p.Invoices))
	}
}

func TestService_ProfileUnknownCustomer(t *testing.T) {
	svc, _ := seededService(t)
	if _, err := svc.Profile(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Profile(context.Background(), ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestService_PlaceOrderDefaultsToActiveToday(t *testing.T) {
	svc, _ := seededService(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return now })

	o, err := svc.PlaceOrder(context.Background(), NewOrder{CustomerID: "c1", ProductName: "SIM", Plan: "Unlimited"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if o.ID == "" {
		t.Fatalf("expected generated id")
	}
	if o.Status != OrderStatusActive {
		t.Fatalf("expected Active, got %q", o.Status)
	}
	if o.InServiceDate == nil || !o.InServiceDate.Equal(now) {
		t.Fatalf("expected in-service date %v, got %v", now, o.InServiceDate)
	}
}

func TestService_PlaceOrderRejectsUnknownStatus(t *testing.T) {
	svc, _ := seededService(t)
	_, err := svc.PlaceOrder(context.Background(), NewOrder{CustomerID: "c1", ProductName: "TV", Plan: "Sports", Status: "Shipped"})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestService_StatusUpdates(t *testing.T) {
	svc, _ := seededService(t)
	ctx := context.Background()

	inc, err := svc.OpenIncident(ctx, NewIncident{CustomerID: "c1", Description: "[General] help"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if inc.Status != IncidentStatusOpen {
		t.Fatalf("expected Open, got %q", inc.Status)
	}
	got, err := svc.UpdateIncidentStatus(ctx, inc.ID, IncidentStatusResolved)
	if err != nil || got.Status != IncidentStatusResolved {
		t.Fatalf("unexpected update result: %+v %v", got, err)
	}
	if _, err := svc.UpdateIncidentStatus(ctx, inc.ID, "Closed"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := svc.UpdateOrderStatus(ctx, "missing", OrderStatusExpired); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInvoiceLine_Kind(t *testing.T) {
	cases := []struct {
		line InvoiceLine
		want InvoiceLineKind
	}{
		{InvoiceLine{Description: "Internet", Amount: 20}, InvoiceLineMonthly},
		{InvoiceLine{Description: "Discount: ESPN Package", Amount: -7.5}, InvoiceLineDiscount},
		{InvoiceLine{Description: "Entertainment Package", Amount: -2}, InvoiceLineCredit},
	}
	for _, tc := range cases {
		if got := tc.line.Kind(); got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.line.Description, tc.want, got)
		}
	}
}

func TestIncident_Category(t *testing.T) {
	if got := (Incident{Description: "[Internet Issues] wifi down"}).Category(); got != "Internet Issues" {
		t.Fatalf("unexpected category %q", got)
	}
	if got := (Incident{Description: "wifi down"}).Category(); got != "" {
		t.Fatalf("expected no category, got %q", got)
	}
}

func TestService_OrderStatusStampsServiceDates(t *testing.T) {
	svc, _ := seededService(t)
	ctx := context.Background()

	o, err := svc.PlaceOrder(ctx, NewOrder{CustomerID: "c1", ProductName: "TV", Plan: "Basic", Status: OrderStatusPending})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if o.InServiceDate != nil {
		t.Fatalf("pending order should not be in service")
	}
	o, err = svc.UpdateOrderStatus(ctx, o.ID, OrderStatusActive)
	if err != nil || o.InServiceDate == nil {
		t.Fatalf("expected activation to start service: %+v %v", o, err)
	}
	started := *o.InServiceDate
	o, err = svc.UpdateOrderStatus(ctx, o.ID, OrderStatusExpired)
	if err != nil || o.OutServiceDate == nil {
		t.Fatalf("expected expiry to end service: %+v %v", o, err)
	}
	if !o.InServiceDate.Equal(started) {
		t.Fatalf("in-service date must not move on expiry")
	}
}
