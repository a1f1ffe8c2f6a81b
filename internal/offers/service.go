package offers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"telecom-care/internal/customers"
	"telecom-care/pkg/logger"
)

var ErrInvalidArgument = errors.New("offers: invalid argument")

// Repository returns catalogue rows. Filtering by time window happens in Service.
type Repository interface {
	ListGeneral(ctx context.Context) ([]Offer, error)
	ListPersonalized(ctx context.Context) ([]Offer, error)
}

// Cache stores the unfiltered general catalogue rows for a short time.
// The time window is applied on every read, so a cached offer starts and
// ends on schedule.
type Cache interface {
	GetGeneral(ctx context.Context) ([]Offer, bool, error)
	SetGeneral(ctx context.Context, rows []Offer) error
}

// PurchaseHistory supplies the orders used for eligibility checks.
type PurchaseHistory interface {
	Orders(ctx context.Context, customerID string) ([]customers.Order, error)
}

type Service struct {
	repo    Repository
	history PurchaseHistory
	cache   Cache
	clock   func() time.Time
}

func NewService(repo Repository, history PurchaseHistory, cache Cache) *Service {
	return &Service{repo: repo, history: history, cache: cache, clock: time.Now}
}

func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// Current returns live general offers, newest first.
func (s *Service) Current(ctx context.Context) ([]Offer, error) {
	rows, err := s.generalRows(ctx)
	if err != nil {
		return nil, err
	}
	return live(rows, s.clock()), nil
}

func (s *Service) generalRows(ctx context.Context) ([]Offer, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetGeneral(ctx)
		if err != nil {
			logger.From(ctx).Warn("offer cache read failed", "err", err)
		} else if ok {
			return cached, nil
		}
	}

	rows, err := s.repo.ListGeneral(ctx)
	if err != nil {
		return nil, fmt.Errorf("list general offers: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.SetGeneral(ctx, rows); err != nil {
			logger.From(ctx).Warn("offer cache write failed", "err", err)
		}
	}
	return rows, nil
}

// Personalized returns live personalized offers the customer qualifies for:
// the customer must hold at least MinPurchaseCount orders (any status) of
// the offer's product and plan.
func (s *Service) Personalized(ctx context.Context, customerID string) ([]Offer, error) {
	if customerID == "" {
		return nil, ErrInvalidArgument
	}
	rows, err := s.repo.ListPersonalized(ctx)
	if err != nil {
		return nil, fmt.Errorf("list personalized offers: %w", err)
	}
	candidates := live(rows, s.clock())
	if len(candidates) == 0 {
		return candidates, nil
	}

	var orders []customers.Order
	if s.history != nil {
		orders, err = s.history.Orders(ctx, customerID)
		if err != nil {
			return nil, fmt.Errorf("purchase history: %w", err)
		}
	}

	out := make([]Offer, 0, len(candidates))
	for _, o := range candidates {
		count := 0
		for _, ord := range orders {
			if o.Matches(ord.ProductName, ord.Plan) {
				count++
			}
		}
		if count >= o.minPurchaseCount() {
			out = append(out, o)
		}
	}
	return out, nil
}

func live(rows []Offer, now time.Time) []Offer {
	out := make([]Offer, 0, len(rows))
	for _, o := range rows {
		if o.Live(now) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
