package customers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory Repository for tests and local demos.
// Rows are returned in insertion order.
type MemoryRepo struct {
	mu        sync.Mutex
	customers []Customer
	orders    []Order
	incidents []Incident
	invoices  []InvoiceLine

	// FailCreates makes CreateOrder and CreateIncident return this error.
	FailCreates error

	now func() time.Time
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{now: time.Now} }

func (r *MemoryRepo) AddCustomer(c Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers = append(r.customers, c)
}

func (r *MemoryRepo) AddOrder(o Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, o)
}

func (r *MemoryRepo) AddIncident(i Incident) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.incidents = append(r.incidents, i)
}

func (r *MemoryRepo) AddInvoiceLine(l InvoiceLine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices = append(r.invoices, l)
}

func (r *MemoryRepo) GetCustomer(ctx context.Context, id string) (Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return Customer{}, ErrNotFound
}

func (r *MemoryRepo) GetCustomerByPhone(ctx context.Context, phone string) (Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.PhoneNumber == phone {
			return c, nil
		}
	}
	return Customer{}, ErrNotFound
}

func (r *MemoryRepo) ListCustomers(ctx context.Context) ([]Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Customer, len(r.customers))
	copy(out, r.customers)
	return out, nil
}

func (r *MemoryRepo) CreateCustomer(ctx context.Context, nc NewCustomer) (Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := Customer{
		ID:          uuid.NewString(),
		Name:        nc.Name,
		Email:       nc.Email,
		PhoneNumber: nc.PhoneNumber,
		CreatedAt:   r.now().UTC(),
	}
	r.customers = append(r.customers, c)
	return c, nil
}

func (r *MemoryRepo) ListOrders(ctx context.Context, customerID string) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *MemoryRepo) CreateOrder(ctx context.Context, no NewOrder) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCreates != nil {
		return Order{}, r.FailCreates
	}
	now := r.now().UTC()
	o := Order{
		ID:            uuid.NewString(),
		CustomerID:    no.CustomerID,
		ProductName:   no.ProductName,
		Plan:          no.Plan,
		Status:        no.Status,
		OrderDate:     now,
		InServiceDate: no.InServiceDate,
		CreatedAt:     now,
	}
	r.orders = append(r.orders, o)
	return o, nil
}

func (r *MemoryRepo) UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == orderID {
			r.orders[i] = stampServiceDates(r.orders[i], status, r.now().UTC())
			return r.orders[i], nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *MemoryRepo) ListIncidents(ctx context.Context, customerID string) ([]Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Incident
	for _, i := range r.incidents {
		if i.CustomerID == customerID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *MemoryRepo) CreateIncident(ctx context.Context, ni NewIncident) (Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCreates != nil {
		return Incident{}, r.FailCreates
	}
	i := Incident{
		ID:          uuid.NewString(),
		CustomerID:  ni.CustomerID,
		Description: ni.Description,
		Status:      ni.Status,
		CreatedAt:   r.now().UTC(),
	}
	r.incidents = append(r.incidents, i)
	return i, nil
}

func (r *MemoryRepo) UpdateIncidentStatus(ctx context.Context, incidentID string, status IncidentStatus) (Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.incidents {
		if r.incidents[i].ID == incidentID {
			r.incidents[i].Status = status
			return r.incidents[i], nil
		}
	}
	return Incident{}, ErrNotFound
}

func (r *MemoryRepo) ListInvoices(ctx context.Context, customerID string) ([]InvoiceLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []InvoiceLine
	for _, l := range r.invoices {
		if l.CustomerID == customerID {
			out = append(out, l)
		}
	}
	return out, nil
}
