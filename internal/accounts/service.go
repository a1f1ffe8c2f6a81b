package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"telecom-care/internal/rbac"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound           = errors.New("accounts: not found")
	ErrEmailTaken         = errors.New("accounts: email already registered")
	ErrInvalidCredentials = errors.New("accounts: invalid credentials")
	ErrInvalidArgument    = errors.New("accounts: invalid argument")
)

const MinPasswordLength = 8

type Repository interface {
	Create(ctx context.Context, a Account) error
	ByEmail(ctx context.Context, email string) (Account, error)
	ByID(ctx context.Context, id string) (Account, error)
}

type Service struct {
	repo  Repository
	cost  int
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, cost: bcrypt.DefaultCost, clock: time.Now}
}

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email is a normalized staff login: trimmed,
// lower-case and containing a single "@" between a local part and a domain.
func ValidEmail(email string) bool {
	if email == "" || email != normalizeEmail(email) {
		return false
	}
	local, domain, ok := strings.Cut(email, "@")
	return ok && local != "" && domain != "" && !strings.Contains(domain, "@")
}

// Register creates a staff account. An empty role defaults to agent.
func (s *Service) Register(ctx context.Context, email, password, role string) (Account, error) {
	email = normalizeEmail(email)
	if !ValidEmail(email) {
		return Account{}, fmt.Errorf("%w: email", ErrInvalidArgument)
	}
	if len(password) < MinPasswordLength {
		return Account{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidArgument, MinPasswordLength)
	}
	if role == "" {
		role = rbac.RoleAgent
	}
	if !rbac.Valid(role) {
		return Account{}, fmt.Errorf("%w: role", ErrInvalidArgument)
	}

	if _, err := s.repo.ByEmail(ctx, email); err == nil {
		return Account{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return Account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return Account{}, fmt.Errorf("hash password: %w", err)
	}

	a := Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.clock().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Account{}, err
	}
	return a, nil
}

// Login checks the password and returns the account.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (Account, error) {
	a, err := s.repo.ByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return Account{}, ErrInvalidCredentials
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (Account, error) {
	return s.repo.ByID(ctx, id)
}
