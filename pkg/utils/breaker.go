package utils

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// NewCircuitBreaker guards one external dependency. It opens after at least
// 5 requests with a 60% failure ratio and lets a trial request through after openTimeout.
// There is no retry layer on top of it.
//
// callerFault marks errors the dependency returned correctly for a bad
// request (an unknown recipient, an empty completion). They are passed
// through to the caller but do not count toward opening the breaker. A
// canceled caller context never counts either.
func NewCircuitBreaker(name string, openTimeout time.Duration, callerFault func(error) bool) *gobreaker.CircuitBreaker {
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		IsSuccessful: func(err error) bool {
			switch {
			case err == nil, errors.Is(err, context.Canceled):
				return true
			case callerFault != nil:
				return callerFault(err)
			}
			return false
		},
	})
}

// ClientStatus reports whether an HTTP status blames the single request
// rather than the service. Auth rejections and throttling are service-wide.
func ClientStatus(status int) bool {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return status >= 400 && status < 500
}
