package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound        = errors.New("customers: not found")
	ErrInvalidArgument = errors.New("customers: invalid argument")
)

// Repository is the persistence contract for customer data.
// Create methods assign a fresh identifier and return the stored row.
type Repository interface {
	GetCustomer(ctx context.Context, id string) (Customer, error)
	GetCustomerByPhone(ctx context.Context, phone string) (Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	CreateCustomer(ctx context.Context, c NewCustomer) (Customer, error)

	ListOrders(ctx context.Context, customerID string) ([]Order, error)
	CreateOrder(ctx context.Context, o NewOrder) (Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) (Order, error)

	ListIncidents(ctx context.Context, customerID string) ([]Incident, error)
	CreateIncident(ctx context.Context, i NewIncident) (Incident, error)
	UpdateIncidentStatus(ctx context.Context, incidentID string, status IncidentStatus) (Incident, error)

	ListInvoices(ctx context.Context, customerID string) ([]InvoiceLine, error)
}

// Service is a stateless facade over Repository. One instance is shared by all requests.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// WithClock overrides the time source used for order dates.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

func (s *Service) Now() time.Time { return s.clock() }

// NormalizePhone strips a WhatsApp channel prefix and whitespace.
func NormalizePhone(phone string) string {
	p := strings.TrimSpace(phone)
	p = strings.TrimPrefix(p, "whatsapp:")
	return strings.TrimSpace(p)
}

func (s *Service) Customer(ctx context.Context, id string) (Customer, error) {
	if strings.TrimSpace(id) == "" {
		return Customer{}, ErrInvalidArgument
	}
	return s.repo.GetCustomer(ctx, id)
}

func (s *Service) CustomerByPhone(ctx context.Context, phone string) (Customer, error) {
	p := NormalizePhone(phone)
	if p == "" {
		return Customer{}, ErrInvalidArgument
	}
	return s.repo.GetCustomerByPhone(ctx, p)
}

func (s *Service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.ListCustomers(ctx)
}

func (s *Service) Register(ctx context.Context, c NewCustomer) (Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.PhoneNumber = NormalizePhone(c.PhoneNumber)
	if c.Name == "" || c.Email == "" || c.PhoneNumber == "" {
		return Customer{}, ErrInvalidArgument
	}
	return s.repo.CreateCustomer(ctx, c)
}

// Profile loads the customer together with orders, incidents and invoices.
func (s *Service) Profile(ctx context.Context, customerID string) (Profile, error) {
	c, err := s.Customer(ctx, customerID)
	if err != nil {
		return Profile{}, err
	}
	return s.load(ctx, c)
}

func (s *Service) ProfileByPhone(ctx context.Context, phone string) (Profile, error) {
	c, err := s.CustomerByPhone(ctx, phone)
	if err != nil {
		return Profile{}, err
	}
	return s.load(ctx, c)
}

func (s *Service) load(ctx context.Context, c Customer) (Profile, error) {
	orders, err := s.repo.ListOrders(ctx, c.ID)
	if err != nil {
		return Profile{}, fmt.Errorf("list orders: %w", err)
	}
	incidents, err := s.repo.ListIncidents(ctx, c.ID)
	if err != nil {
		return Profile{}, fmt.Errorf("list incidents: %w", err)
	}
	invoices, err := s.repo.ListInvoices(ctx, c.ID)
	if err != nil {
		return Profile{}, fmt.Errorf("list invoices: %w", err)
	}
	return Profile{Customer: c, Orders: orders, Incidents: incidents, Invoices: invoices}, nil
}

func (s *Service) Orders(ctx context.Context, customerID string) ([]Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.ListOrders(ctx, customerID)
}

func (s *Service) Incidents(ctx context.Context, customerID string) ([]Incident, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.ListIncidents(ctx, customerID)
}

// PlaceOrder creates an order. An empty status defaults to Active and an
// Active order starts service today.
func (s *Service) PlaceOrder(ctx context.Context, o NewOrder) (Order, error) {
	if o.Status == "" {
		o.Status = OrderStatusActive
	}
	if !o.Status.Valid() {
		return Order{}, fmt.Errorf("%w: status %q", ErrInvalidArgument, o.Status)
	}
	if o.CustomerID == "" || strings.TrimSpace(o.ProductName) == "" || strings.TrimSpace(o.Plan) == "" {
		return Order{}, ErrInvalidArgument
	}
	if o.Status == OrderStatusActive && o.InServiceDate == nil {
		today := s.clock()
		o.InServiceDate = &today
	}
	return s.repo.CreateOrder(ctx, o)
}

func (s *Service) OpenIncident(ctx context.Context, i NewIncident) (Incident, error) {
	if i.Status == "" {
		i.Status = IncidentStatusOpen
	}
	if !i.Status.Valid() {
		return Incident{}, fmt.Errorf("%w: status %q", ErrInvalidArgument, i.Status)
	}
	if i.CustomerID == "" || strings.TrimSpace(i.Description) == "" {
		return Incident{}, ErrInvalidArgument
	}
	return s.repo.CreateIncident(ctx, i)
}

func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) (Order, error) {
	if orderID == "" || !status.Valid() {
		return Order{}, ErrInvalidArgument
	}
	return s.repo.UpdateOrderStatus(ctx, orderID, status)
}

func (s *Service) UpdateIncidentStatus(ctx context.Context, incidentID string, status IncidentStatus) (Incident, error) {
	if incidentID == "" || !status.Valid() {
		return Incident{}, ErrInvalidArgument
	}
	return s.repo.UpdateIncidentStatus(ctx, incidentID, status)
}
