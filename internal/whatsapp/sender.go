package whatsapp

import (
	"context"
	"errors"
	"strings"
	"time"

	"telecom-care/internal/metrics"
	"telecom-care/pkg/logger"
	"telecom-care/pkg/utils"

	"github.com/sony/gobreaker"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// DefaultFrom is the Twilio WhatsApp sandbox sender.
const DefaultFrom = "whatsapp:+14155238886"

// Receipt identifies an accepted outbound message.
type Receipt struct {
	SID    string `json:"sid"`
	Status string `json:"status,omitempty"`
}

// Sender delivers one plain-text message to a phone number.
type Sender interface {
	Send(ctx context.Context, to, body string) (Receipt, error)
}

// messageCreator is the slice of the twilio-go REST client used here.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type Config struct {
	AccountSID     string
	AuthToken      string
	From           string
	SandboxCode    string
	BreakerTimeout time.Duration
}

// TwilioSender sends WhatsApp messages through the Twilio Messages API.
type TwilioSender struct {
	api         messageCreator
	from        string
	sandboxCode string
	breaker     *gobreaker.CircuitBreaker
	metrics     *metrics.Metrics
}

func NewTwilioSender(cfg Config, m *metrics.Metrics) (*TwilioSender, error) {
	if strings.TrimSpace(cfg.AccountSID) == "" || strings.TrimSpace(cfg.AuthToken) == "" {
		return nil, ErrNotConfigured
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return newTwilioSender(client.Api, cfg, m), nil
}

func newTwilioSender(api messageCreator, cfg Config, m *metrics.Metrics) *TwilioSender {
	from := strings.TrimSpace(cfg.From)
	if from == "" {
		from = DefaultFrom
	}
	if !strings.HasPrefix(from, channelPrefix) {
		from = channelPrefix + from
	}
	return &TwilioSender{
		api:         api,
		from:        from,
		sandboxCode: cfg.SandboxCode,
		breaker:     utils.NewCircuitBreaker("twilio", cfg.BreakerTimeout, recipientError),
		metrics:     m,
	}
}

// JoinInstructions returns the sandbox hint for this sender.
func (s *TwilioSender) JoinInstructions() string {
	return JoinInstructions(s.sandboxCode, s.from)
}

func (s *TwilioSender) Send(ctx context.Context, to, body string) (Receipt, error) {
	to = stripChannel(to)
	if to == "" {
		return Receipt{}, &SendError{Kind: KindInvalidNumber, Message: "destination is required", UserMessage: "Invalid phone number format"}
	}
	if strings.TrimSpace(body) == "" {
		return Receipt{}, &SendError{Kind: KindEmptyBody, Message: "body is required", UserMessage: "Message body is required"}
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(channelPrefix + to)
	params.SetFrom(s.from)
	params.SetBody(body)

	start := time.Now()
	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.api.CreateMessage(params)
	})
	s.metrics.ObserveExternal("twilio", time.Since(start), err)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Receipt{}, &SendError{Kind: KindUnavailable, Message: err.Error(), UserMessage: "An error occurred while sending the message", err: err}
		}
		se := classify(err, s.JoinInstructions())
		logger.From(ctx).Warn("whatsapp send failed", "kind", string(se.Kind), "code", se.Code)
		return Receipt{}, se
	}

	msg := out.(*twilioApi.ApiV2010Message)
	var r Receipt
	if msg != nil {
		if msg.Sid != nil {
			r.SID = *msg.Sid
		}
		if msg.Status != nil {
			r.Status = string(*msg.Status)
		}
	}
	return r, nil
}

// Registration is the result of probing a destination.
type Registration struct {
	Registered bool   `json:"isRegistered"`
	Status     string `json:"status,omitempty"`
	ErrorCode  int    `json:"errorCode,omitempty"`
	Message    string `json:"message,omitempty"`
}

// CheckRegistration sends a minimal "." message. The sandbox offers no
// other way to learn whether a number has joined.
func (s *TwilioSender) CheckRegistration(ctx context.Context, phone string) Registration {
	r, err := s.Send(ctx, phone, ".")
	if err == nil {
		return Registration{Registered: true, Status: r.Status}
	}
	var se *SendError
	if errors.As(err, &se) {
		return Registration{ErrorCode: se.Code, Message: se.UserMessage}
	}
	return Registration{Message: err.Error()}
}

// Disabled is used when Twilio credentials are not configured.
type Disabled struct{}

func (Disabled) Send(ctx context.Context, to, body string) (Receipt, error) {
	return Receipt{}, ErrNotConfigured
}
