package telephony

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strings"
)

// Minimal TwiML builder; only the verbs the escalation flow emits.

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any    `xml:",any"`
}

type twimlSay struct {
	XMLName xml.Name `xml:"Say"`
	Text    string   `xml:",chardata"`
}

type twimlHangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

type twimlDial struct {
	XMLName xml.Name `xml:"Dial"`
	Number  string   `xml:"Number"`
}

// RenderTwiML maps a CallDecision to TwiML.
func RenderTwiML(d CallDecision) (string, error) {
	var r twimlResponse
	if strings.TrimSpace(d.Say) != "" {
		r.Verbs = append(r.Verbs, twimlSay{Text: d.Say})
	}

	switch d.Action {
	case CallActionHangup:
		r.Verbs = append(r.Verbs, twimlHangup{})
	case CallActionConnect:
		if strings.TrimSpace(d.ConnectTo) == "" {
			return "", errors.New("telephony: connect_to required for connect action")
		}
		r.Verbs = append(r.Verbs, twimlDial{Number: d.ConnectTo})
	default:
		return "", errors.New("telephony: unknown call action")
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
