package whatsapp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseInbound_Form(t *testing.T) {
	body := strings.NewReader("MessageSid=SM1&From=whatsapp%3A%2B31612345678&To=whatsapp%3A%2B14155238886&Body=hello&NumMedia=2")
	r := httptest.NewRequest(http.MethodPost, "/api/whatsapp/webhook", body)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	m, err := ParseInbound(r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.MessageSid != "SM1" || m.From != "+31612345678" || m.To != "+14155238886" || m.Body != "hello" || m.NumMedia != 2 {
		t.Fatalf("unexpected message %+v", m)
	}
	if m.IsVerification() {
		t.Fatalf("not a verification payload")
	}
}

func TestParseInbound_JSONVerification(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/whatsapp/webhook", strings.NewReader(`{"type":"verification"}`))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")

	m, err := ParseInbound(r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !m.IsVerification() {
		t.Fatalf("expected verification payload")
	}
}

func TestParseInbound_JSONMessage(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/whatsapp/webhook", strings.NewReader(`{"From":"whatsapp:+3161","Body":"hi","NumMedia":"1"}`))
	r.Header.Set("Content-Type", "application/json")

	m, err := ParseInbound(r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.From != "+3161" || m.Body != "hi" || m.NumMedia != 1 {
		t.Fatalf("unexpected message %+v", m)
	}

	bad := httptest.NewRequest(http.MethodPost, "/api/whatsapp/webhook", strings.NewReader(`{`))
	bad.Header.Set("Content-Type", "application/json")
	if _, err := ParseInbound(bad); err == nil {
		t.Fatalf("expected error")
	}
}
