package telephony

import (
	"context"
	"errors"
	"strings"

	"telecom-care/internal/customers"
)

// CallAction describes what Twilio should do with an inbound voice call.
type CallAction string

const (
	CallActionConnect CallAction = "connect"
	CallActionHangup  CallAction = "hangup"
)

// CallDecision is the outcome of routing one inbound call.
type CallDecision struct {
	Action CallAction
	// Say is spoken before the action.
	Say string
	// ConnectTo is the support desk number when Action is connect.
	ConnectTo string
	// CustomerID is set for a recognised caller.
	CustomerID string
}

// CallerLookup finds a customer by the calling number.
type CallerLookup interface {
	CustomerByPhone(ctx context.Context, phone string) (customers.Customer, error)
}

const (
	sayUnknownCaller = "Welcome! Please register first by visiting our website."
	defaultSupport   = "1200"
)

// Escalator routes "call support" calls to the human support desk.
type Escalator struct {
	lookup  CallerLookup
	support string
}

func NewEscalator(lookup CallerLookup, supportNumber string) *Escalator {
	if strings.TrimSpace(supportNumber) == "" {
		supportNumber = defaultSupport
	}
	return &Escalator{lookup: lookup, support: supportNumber}
}

// Decide connects registered customers and turns everyone else away.
// Lookup failures other than not-found still connect, without a greeting by name.
func (e *Escalator) Decide(ctx context.Context, call VoiceCallForm) (CallDecision, error) {
	c, err := e.lookup.CustomerByPhone(ctx, call.From)
	switch {
	case err == nil:
		return CallDecision{
			Action:     CallActionConnect,
			Say:        "Hello " + firstName(c.Name) + ", connecting you to customer care.",
			ConnectTo:  e.support,
			CustomerID: c.ID,
		}, nil
	case isNotFound(err):
		return CallDecision{Action: CallActionHangup, Say: sayUnknownCaller}, nil
	default:
		return CallDecision{
			Action:    CallActionConnect,
			Say:       "Connecting you to customer care.",
			ConnectTo: e.support,
		}, err
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, customers.ErrNotFound) || errors.Is(err, customers.ErrInvalidArgument)
}

func firstName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	if name == "" {
		return "there"
	}
	return name
}
