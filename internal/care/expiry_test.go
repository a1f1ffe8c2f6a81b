package care

import (
	"testing"
	"time"

	"telecom-care/internal/customers"
)

func order(id, product, plan string, status customers.OrderStatus, in, out *time.Time) customers.Order {
	return customers.Order{ID: id, ProductName: product, Plan: plan, Status: status, InServiceDate: in, OutServiceDate: out}
}

func at(t time.Time) *time.Time { return &t }

func TestExpiringPlan_Window(t *testing.T) {
	now := testNow
	cases := []struct {
		name string
		out  time.Time
		want bool
	}{
		{"exactly now", now, false},
		{"one second later", now.Add(time.Second), true},
		{"seven days", now.AddDate(0, 0, 7), true},
		{"just past seven days", now.AddDate(0, 0, 7).Add(time.Second), false},
		{"already expired", now.AddDate(0, 0, -1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExpiringPlan([]customers.Order{order("o1", "SIM", "Basic", customers.OrderStatusActive, nil, at(tc.out))}, now)
			if (got != nil) != tc.want {
				t.Fatalf("got %+v, want hit=%v", got, tc.want)
			}
		})
	}
}

func TestExpiringPlan_FirstMatchNotSoonest(t *testing.T) {
	orders := []customers.Order{
		order("late", "TV", "Sports", customers.OrderStatusActive, nil, at(testNow.AddDate(0, 0, 6))),
		order("soon", "SIM", "Basic", customers.OrderStatusActive, nil, at(testNow.AddDate(0, 0, 1))),
	}
	got := ExpiringPlan(orders, testNow)
	if got == nil || got.ProductName != "TV" || got.DaysUntilExpiration != 6 {
		t.Fatalf("expected the first qualifying order, got %+v", got)
	}
}

func TestExpiringPlan_DerivesExpiryAndSkipsInactive(t *testing.T) {
	orders := []customers.Order{
		order("pending", "Phone", "Premium", customers.OrderStatusPending, nil, at(testNow.AddDate(0, 0, 2))),
		order("undated", "Phone", "Premium", customers.OrderStatusActive, nil, nil),
		order("derived", "Internet", "", customers.OrderStatusActive, at(testNow.AddDate(0, -1, 0).Add(36*time.Hour)), nil),
	}
	got := ExpiringPlan(orders, testNow)
	if got == nil {
		t.Fatalf("expected a hit")
	}
	if got.ProductName != "Internet" || got.Plan != "Standard" {
		t.Fatalf("unexpected plan %+v", got)
	}
	if got.DaysUntilExpiration != 2 {
		t.Fatalf("expected 36h to round up to 2 days, got %d", got.DaysUntilExpiration)
	}
}

func TestExpiringPlan_NoActiveOrders(t *testing.T) {
	if got := ExpiringPlan(nil, testNow); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestOrderSlots(t *testing.T) {
	p, pl, def := orderSlots("Confirm order: Yes, product: Internet, plan: Premium")
	if p != "Internet" || pl != "Premium" || def {
		t.Fatalf("unexpected slots %q %q %v", p, pl, def)
	}
	p, pl, def = orderSlots("confirm order yes, product: TV")
	if p != "TV" || pl != "Unlimited" || !def {
		t.Fatalf("unexpected slots %q %q %v", p, pl, def)
	}
}
