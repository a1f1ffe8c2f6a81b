package offers

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repository for tests and local demos.
type MemoryRepo struct {
	mu     sync.Mutex
	offers []Offer
	calls  int
}

func NewMemoryRepo(seed ...Offer) *MemoryRepo {
	return &MemoryRepo{offers: append([]Offer(nil), seed...)}
}

func (r *MemoryRepo) Add(o Offer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offers = append(r.offers, o)
}

// Calls counts List* invocations.
func (r *MemoryRepo) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *MemoryRepo) ListGeneral(ctx context.Context) ([]Offer, error) {
	return r.list(false), nil
}

func (r *MemoryRepo) ListPersonalized(ctx context.Context) ([]Offer, error) {
	return r.list(true), nil
}

func (r *MemoryRepo) list(personalized bool) []Offer {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	var out []Offer
	for _, o := range r.offers {
		if o.Personalized == personalized {
			out = append(out, o)
		}
	}
	return out
}
