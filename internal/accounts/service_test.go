package accounts

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestService() *Service {
	return NewService(NewMemoryRepo()).WithCost(bcrypt.MinCost)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	a, err := svc.Register(ctx, " Agent@Example.com ", "correct-horse", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if a.Email != "agent@example.com" || a.Role != "agent" {
		t.Fatalf("unexpected account %+v", a)
	}
	if a.PasswordHash == "correct-horse" {
		t.Fatalf("password stored in clear")
	}

	got, err := svc.Login(ctx, "AGENT@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != a.ID {
		t.Fatalf("expected same account")
	}

	if _, err := svc.Login(ctx, "agent@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRegisterRejectsDuplicatesAndWeakInput(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if _, err := svc.Register(ctx, "a@example.com", "longenough", "supervisor"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "A@example.com", "longenough", ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := svc.Register(ctx, "b@example.com", "short", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for short password, got %v", err)
	}
	if _, err := svc.Register(ctx, "not-an-email", "longenough", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for email, got %v", err)
	}
	if _, err := svc.Register(ctx, "c@example.com", "longenough", "owner"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for role, got %v", err)
	}
}

func TestValidEmail(t *testing.T) {
	for email, want := range map[string]bool{
		"agent@example.com":  true,
		"Agent@example.com":  false,
		" agent@example.com": false,
		"agent":              false,
		"@example.com":       false,
		"agent@":             false,
		"a@b@example.com":    false,
		"":                   false,
	} {
		if got := ValidEmail(email); got != want {
			t.Fatalf("%q: got %v, want %v", email, got, want)
		}
	}
}
