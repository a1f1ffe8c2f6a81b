package accounts

import (
	"context"
	"sync"
)

type MemoryRepo struct {
	mu      sync.Mutex
	byID    map[string]Account
	byEmail map[string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: map[string]Account{}, byEmail: map[string]string{}}
}

func (r *MemoryRepo) Create(ctx context.Context, a Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[a.Email]; ok {
		return ErrEmailTaken
	}
	r.byID[a.ID] = a
	r.byEmail[a.Email] = a.ID
	return nil
}

func (r *MemoryRepo) ByEmail(ctx context.Context, email string) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[email]
	if !ok {
		return Account{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryRepo) ByID(ctx context.Context, id string) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return a, nil
}
