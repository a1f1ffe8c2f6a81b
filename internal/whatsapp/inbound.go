package whatsapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
)

const channelPrefix = "whatsapp:"

// InboundMessage is the subset of Twilio's WhatsApp webhook fields we use.
type InboundMessage struct {
	MessageSid string `json:"MessageSid"`
	From       string `json:"From"`
	To         string `json:"To"`
	Body       string `json:"Body"`
	NumMedia   int    `json:"-"`

	// Type is only set on the sandbox verification handshake.
	Type string `json:"type"`
}

// IsVerification reports whether the payload is the sandbox handshake.
func (m InboundMessage) IsVerification() bool { return m.Type == "verification" }

var ErrInvalidPayload = errors.New("whatsapp: invalid payload")

// ParseInbound reads a form-encoded or JSON webhook body. The whatsapp:
// prefix is stripped from From and To.
func ParseInbound(r *http.Request) (InboundMessage, error) {
	var m InboundMessage

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var raw struct {
			InboundMessage
			NumMedia json.RawMessage `json:"NumMedia"`
		}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return InboundMessage{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		m = raw.InboundMessage
		m.NumMedia = atoi(strings.Trim(string(raw.NumMedia), `"`))
	} else {
		if err := r.ParseForm(); err != nil {
			return InboundMessage{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		m = InboundMessage{
			MessageSid: r.PostFormValue("MessageSid"),
			From:       r.PostFormValue("From"),
			To:         r.PostFormValue("To"),
			Body:       r.PostFormValue("Body"),
			NumMedia:   atoi(r.PostFormValue("NumMedia")),
			Type:       r.PostFormValue("type"),
		}
	}

	m.From = stripChannel(m.From)
	m.To = stripChannel(m.To)
	return m, nil
}

func stripChannel(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), channelPrefix))
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
