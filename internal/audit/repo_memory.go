package audit

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory append-only repository for tests and APP_STORE=memory.
type MemoryRepo struct {
	mu     sync.Mutex
	events []Event

	// FailAppends, when set, is returned from every Append.
	FailAppends error
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Append(ctx context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailAppends != nil {
		return r.FailAppends
	}
	r.events = append(r.events, e)
	return nil
}

func (r *MemoryRepo) ListByCustomer(ctx context.Context, customerID string) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *MemoryRepo) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
