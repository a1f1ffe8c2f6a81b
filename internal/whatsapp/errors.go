package whatsapp

import (
	"errors"
	"fmt"
	"strings"

	"telecom-care/pkg/utils"

	twclient "github.com/twilio/twilio-go/client"
)

var (
	ErrNotConfigured = errors.New("whatsapp: not configured")
	ErrSendFailed    = errors.New("whatsapp: send failed")
)

type Kind string

const (
	KindNotRegistered Kind = "not_registered"
	KindInvalidNumber Kind = "invalid_number"
	KindEmptyBody     Kind = "empty_body"
	KindSandboxConfig Kind = "sandbox_config"
	KindUnavailable   Kind = "unavailable"
	KindUnknown       Kind = "unknown"
)

// Twilio error codes.
const (
	codeInvalidNumber = 21211
	codeNotRegistered = 21214
	codeEmptyBody     = 21215
	codeSandboxConfig = 63007
)

// SendError classifies a failed send. It unwraps to ErrSendFailed.
type SendError struct {
	Kind    Kind
	Code    int
	Message string

	// UserMessage is safe to show to the person who triggered the send.
	UserMessage string

	err error
}

func (e *SendError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("whatsapp: send failed (%s, code %d): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("whatsapp: send failed (%s): %s", e.Kind, e.Message)
}

func (e *SendError) Unwrap() []error {
	if e.err == nil {
		return []error{ErrSendFailed}
	}
	return []error{ErrSendFailed, e.err}
}

// JoinInstructions is the user-facing hint for a destination that has not joined the sandbox.
func JoinInstructions(sandboxCode, sandboxNumber string) string {
	code := strings.TrimSpace(sandboxCode)
	if code == "" {
		code = "<your-sandbox-code>"
	}
	number := stripChannel(sandboxNumber)
	if number == "" {
		number = "+14155238886"
	}
	return fmt.Sprintf("Please join the WhatsApp sandbox by sending \"join %s\" to %s", code, number)
}

// recipientError is true when Twilio rejected one message for reasons tied
// to its destination or content. Such errors say nothing about Twilio's
// health and must not trip the shared breaker.
func recipientError(err error) bool {
	var tw *twclient.TwilioRestError
	if !errors.As(err, &tw) {
		return false
	}
	switch tw.Code {
	case codeNotRegistered, codeInvalidNumber, codeEmptyBody, codeSandboxConfig:
		return true
	}
	return utils.ClientStatus(tw.Status)
}

// classify maps a Twilio REST error onto a SendError.
func classify(err error, join string) *SendError {
	var se *SendError
	if errors.As(err, &se) {
		return se
	}

	var tw *twclient.TwilioRestError
	if !errors.As(err, &tw) {
		return &SendError{Kind: KindUnavailable, Message: err.Error(), UserMessage: "An error occurred while sending the message", err: err}
	}

	out := &SendError{Code: tw.Code, Message: tw.Message, err: err}
	switch tw.Code {
	case codeNotRegistered:
		out.Kind = KindNotRegistered
		out.UserMessage = join
	case codeInvalidNumber:
		out.Kind = KindInvalidNumber
		out.UserMessage = "Invalid phone number format"
	case codeEmptyBody:
		out.Kind = KindEmptyBody
		out.UserMessage = "Message body is required"
	case codeSandboxConfig:
		out.Kind = KindSandboxConfig
		out.UserMessage = "WhatsApp sandbox configuration issue. Please ensure you have joined the sandbox."
	default:
		out.Kind = KindUnknown
		out.UserMessage = "An error occurred while sending the message: " + tw.Message
	}
	return out
}

// KindOf returns the classification of err, or "" if err is not a SendError.
func KindOf(err error) Kind {
	var se *SendError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
