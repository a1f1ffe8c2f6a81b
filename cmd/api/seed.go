package main

import (
	"time"

	"telecom-care/internal/accounts"
	"telecom-care/internal/audit"
	"telecom-care/internal/customers"
	"telecom-care/internal/offers"
)

// memoryStores backs APP_STORE=memory with a small demo dataset.
func memoryStores() stores {
	now := time.Now().UTC()
	day := 24 * time.Hour
	at := func(d time.Duration) *time.Time { t := now.Add(d); return &t }

	cust := customers.NewMemoryRepo()
	cust.AddCustomer(customers.Customer{ID: "user1", Name: "John Doe", Email: "john@example.com", PhoneNumber: "+31612345678", CreatedAt: now})
	cust.AddCustomer(customers.Customer{ID: "user2", Name: "Jane Smith", Email: "jane@example.com", PhoneNumber: "+31698765432", CreatedAt: now})

	cust.AddOrder(customers.Order{ID: "ORD001", CustomerID: "user1", ProductName: "SIM", Plan: "Unlimited 5G", Status: customers.OrderStatusActive, OrderDate: now.Add(-25 * day), InServiceDate: at(-25 * day), OutServiceDate: at(5 * day)})
	cust.AddOrder(customers.Order{ID: "ORD002", CustomerID: "user1", ProductName: "SIM", Plan: "Basic 4G", Status: customers.OrderStatusExpired, OrderDate: now.Add(-120 * day), InServiceDate: at(-120 * day), OutServiceDate: at(-90 * day)})
	cust.AddOrder(customers.Order{ID: "ORD003", CustomerID: "user2", ProductName: "Internet", Plan: "Family Plan 10GB", Status: customers.OrderStatusActive, OrderDate: now.Add(-10 * day), InServiceDate: at(-10 * day)})

	cust.AddIncident(customers.Incident{ID: "INC001", CustomerID: "user1", Description: "[Phone] No network coverage in Amsterdam", Status: customers.IncidentStatusResolved, CreatedAt: now.Add(-9 * day)})
	cust.AddIncident(customers.Incident{ID: "INC002", CustomerID: "user1", Description: "[General] Overcharged on last bill", Status: customers.IncidentStatusPending, CreatedAt: now.Add(-4 * day)})
	cust.AddIncident(customers.Incident{ID: "INC003", CustomerID: "user1", Description: "[General] SIM card not delivered", Status: customers.IncidentStatusOpen, CreatedAt: now.Add(-2 * day)})
	cust.AddIncident(customers.Incident{ID: "INC004", CustomerID: "user2", Description: "[Internet] Slow internet speed at home", Status: customers.IncidentStatusOpen, CreatedAt: now.Add(-2 * day)})

	offs := offers.NewMemoryRepo(
		offers.Offer{ID: "OFF001", Name: "Spring TV bundle", Description: "Three months of TV Sports at a discount", DiscountPercentage: 20, ProductType: "TV", PlanType: "Sports", StartDate: now.Add(-7 * day), EndDate: now.Add(30 * day), IsActive: true},
		offers.Offer{ID: "OFF002", Name: "Loyal SIM upgrade", Description: "Upgrade your SIM plan for less", DiscountPercentage: 15, ProductType: "SIM", PlanType: "Unlimited 5G", StartDate: now.Add(-7 * day), EndDate: now.Add(30 * day), IsActive: true, Personalized: true, Eligibility: &offers.EligibilityCondition{MinPurchaseCount: 1}},
	)

	return stores{
		customers: cust,
		offers:    offs,
		accounts:  accounts.NewMemoryRepo(),
		audit:     audit.NewMemoryRepo(),
	}
}
