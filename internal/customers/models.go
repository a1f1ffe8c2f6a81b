package customers

import (
	"strings"
	"time"
)

type Customer struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Email       string    `json:"email" db:"email"`
	PhoneNumber string    `json:"phoneNumber" db:"phone_number"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type OrderStatus string

const (
	OrderStatusActive  OrderStatus = "Active"
	OrderStatusPending OrderStatus = "Pending"
	OrderStatusExpired OrderStatus = "Expired"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusActive, OrderStatusPending, OrderStatusExpired:
		return true
	default:
		return false
	}
}

// Order is one product subscription held by a customer.
//
// Invariant (not enforced by storage): at most one Active order per (customer, product).
type Order struct {
	ID             string      `json:"orderId" db:"id"`
	CustomerID     string      `json:"customerId" db:"customer_id"`
	ProductName    string      `json:"productName" db:"product_name"`
	Plan           string      `json:"plan" db:"plan"`
	Status         OrderStatus `json:"status" db:"status"`
	OrderDate      time.Time   `json:"date" db:"order_date"`
	InServiceDate  *time.Time  `json:"inServiceDate,omitempty" db:"in_service_date"`
	OutServiceDate *time.Time  `json:"outServiceDate,omitempty" db:"out_service_date"`
	CreatedAt      time.Time   `json:"createdAt" db:"created_at"`
}

// stampServiceDates applies status to o. Activation starts service and
// expiry ends it, each only when that date is still unset.
func stampServiceDates(o Order, status OrderStatus, now time.Time) Order {
	o.Status = status
	switch status {
	case OrderStatusActive:
		if o.InServiceDate == nil {
			o.InServiceDate = &now
		}
	case OrderStatusExpired:
		if o.OutServiceDate == nil {
			o.OutServiceDate = &now
		}
	}
	return o
}

type IncidentStatus string

const (
	IncidentStatusOpen     IncidentStatus = "Open"
	IncidentStatusPending  IncidentStatus = "Pending"
	IncidentStatusResolved IncidentStatus = "Resolved"
)

func (s IncidentStatus) Valid() bool {
	switch s {
	case IncidentStatusOpen, IncidentStatusPending, IncidentStatusResolved:
		return true
	default:
		return false
	}
}

// Incident description may start with a "[Category] " tag.
type Incident struct {
	ID          string         `json:"incidentId" db:"id"`
	CustomerID  string         `json:"customerId" db:"customer_id"`
	Description string         `json:"description" db:"description"`
	Status      IncidentStatus `json:"status" db:"status"`
	CreatedAt   time.Time      `json:"date" db:"created_at"`
}

// Category returns the embedded "[Category]" tag, or "" if none is present.
func (i Incident) Category() string {
	d := strings.TrimSpace(i.Description)
	if !strings.HasPrefix(d, "[") {
		return ""
	}
	end := strings.Index(d, "]")
	if end <= 1 {
		return ""
	}
	return d[1:end]
}

// DiscountPrefix marks an invoice line as a promotional deduction.
const DiscountPrefix = "Discount:"

type InvoiceLineKind string

const (
	InvoiceLineMonthly  InvoiceLineKind = "monthly"
	InvoiceLineDiscount InvoiceLineKind = "discount"
	InvoiceLineCredit   InvoiceLineKind = "credit"
)

type InvoiceLine struct {
	ID          string    `json:"id" db:"id"`
	CustomerID  string    `json:"customerId" db:"customer_id"`
	InvoiceID   string    `json:"invoiceId" db:"invoice_id"`
	Description string    `json:"description" db:"description"`
	Amount      float64   `json:"price" db:"amount"`
	PeriodStart time.Time `json:"periodStartDate" db:"period_start"`
	PeriodEnd   time.Time `json:"periodEndDate" db:"period_end"`
}

// Kind buckets the line: a "Discount:" description is a promotion, any other
// negative amount is a pro-rated credit for a service stopped early.
func (l InvoiceLine) Kind() InvoiceLineKind {
	if strings.HasPrefix(strings.TrimSpace(l.Description), DiscountPrefix) {
		return InvoiceLineDiscount
	}
	if l.Amount < 0 {
		return InvoiceLineCredit
	}
	return InvoiceLineMonthly
}

// Profile is the request-scoped view of a customer used by the care flow.
type Profile struct {
	Customer  Customer      `json:"customer"`
	Orders    []Order       `json:"orders"`
	Incidents []Incident    `json:"incidents"`
	Invoices  []InvoiceLine `json:"invoices"`
}

type NewCustomer struct {
	Name        string
	Email       string
	PhoneNumber string
}

type NewOrder struct {
	CustomerID    string
	ProductName   string
	Plan          string
	Status        OrderStatus
	InServiceDate *time.Time
}

type NewIncident struct {
	CustomerID  string
	Description string
	Status      IncidentStatus
}
