package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
// It is append-only: there is no Update or Delete.
type Repository interface {
	Append(ctx context.Context, e Event) error
	ListByCustomer(ctx context.Context, customerID string) ([]Event, error)
}

// Actor identifies who drove an action. The zero value means the customer themselves.
type Actor struct {
	UserID string
	Role   string
}

type actorKey struct{}

// WithActor attaches the authenticated staff member to ctx so Record can pick it up.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func actorFrom(ctx context.Context) Actor {
	a, _ := ctx.Value(actorKey{}).(Actor)
	return a
}

// Service records care actions. Callers treat it as best-effort.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s == nil || s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.CustomerID == "" || e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	if e.ActorUserID == "" {
		a := actorFrom(ctx)
		e.ActorUserID, e.ActorRole = a.UserID, a.Role
	}
	return s.repo.Append(ctx, e)
}

// Record appends an event of the given type for customerID.
func (s *Service) Record(ctx context.Context, typ EventType, customerID, channel, targetID, message string) error {
	return s.Append(ctx, Event{
		CustomerID: customerID,
		Type:       typ,
		Channel:    channel,
		TargetID:   targetID,
		Message:    message,
	})
}

func (s *Service) History(ctx context.Context, customerID string) ([]Event, error) {
	if s == nil || s.repo == nil {
		return nil, errors.New("audit: repository not configured")
	}
	return s.repo.ListByCustomer(ctx, customerID)
}
