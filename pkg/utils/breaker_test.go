package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", time.Minute, nil)
	boom := errors.New("boom")

	for i := 0; i < 5; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, boom })
	}
	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", cb.State())
	}
	_, err := cb.Execute(func() (interface{}, error) { return "ok", nil })
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected ErrOpenState, got %v", err)
	}
}

func TestCircuitBreakerIgnoresCallerFaults(t *testing.T) {
	rejected := errors.New("rejected")
	cb := NewCircuitBreaker("test", time.Minute, func(err error) bool { return errors.Is(err, rejected) })

	for i := 0; i < 10; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, rejected })
		if !errors.Is(err, rejected) {
			t.Fatalf("caller faults must still reach the caller, got %v", err)
		}
	}
	for i := 0; i < 10; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, context.Canceled })
	}
	if cb.State() != gobreaker.StateClosed {
		t.Fatalf("expected closed breaker, got %s", cb.State())
	}
}

func TestClientStatus(t *testing.T) {
	for status, want := range map[int]bool{400: true, 404: true, 401: false, 403: false, 408: false, 429: false, 500: false, 503: false, 0: false} {
		if got := ClientStatus(status); got != want {
			t.Fatalf("status %d: got %v, want %v", status, got, want)
		}
	}
}
