package whatsapp

import (
	"context"
	"errors"
	"strings"
	"testing"

	twclient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeCreator struct {
	err  error
	last *twilioApi.CreateMessageParams
}

func (f *fakeCreator) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.last = params
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestTwilioSender_Send(t *testing.T) {
	fc := &fakeCreator{}
	s := newTwilioSender(fc, Config{From: "+14155238886"}, nil)

	r, err := s.Send(context.Background(), "whatsapp:+31612345678", "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if r.SID != "SM123" {
		t.Fatalf("unexpected receipt %+v", r)
	}
	if *fc.last.To != "whatsapp:+31612345678" || *fc.last.From != "whatsapp:+14155238886" || *fc.last.Body != "hello" {
		t.Fatalf("unexpected params to=%s from=%s", *fc.last.To, *fc.last.From)
	}
}

func TestTwilioSender_ClassifiesErrors(t *testing.T) {
	cases := []struct {
		code int
		kind Kind
	}{
		{21214, KindNotRegistered},
		{21211, KindInvalidNumber},
		{21215, KindEmptyBody},
		{63007, KindSandboxConfig},
		{20003, KindUnknown},
	}
	for _, tc := range cases {
		fc := &fakeCreator{err: &twclient.TwilioRestError{Code: tc.code, Message: "boom", Status: 400}}
		s := newTwilioSender(fc, Config{SandboxCode: "blue-fox"}, nil)

		_, err := s.Send(context.Background(), "+31612345678", "hello")
		if !errors.Is(err, ErrSendFailed) {
			t.Fatalf("code %d: expected ErrSendFailed, got %v", tc.code, err)
		}
		if got := KindOf(err); got != tc.kind {
			t.Fatalf("code %d: expected %s, got %s", tc.code, tc.kind, got)
		}
		if tc.kind == KindNotRegistered {
			var se *SendError
			errors.As(err, &se)
			if se.UserMessage != `Please join the WhatsApp sandbox by sending "join blue-fox" to +14155238886` {
				t.Fatalf("unexpected join instructions %q", se.UserMessage)
			}
		}
	}
}

func TestTwilioSender_RejectsEmptyInputWithoutCalling(t *testing.T) {
	fc := &fakeCreator{}
	s := newTwilioSender(fc, Config{}, nil)

	if _, err := s.Send(context.Background(), "", "x"); KindOf(err) != KindInvalidNumber {
		t.Fatalf("expected invalid number, got %v", err)
	}
	if _, err := s.Send(context.Background(), "+31", "  "); KindOf(err) != KindEmptyBody {
		t.Fatalf("expected empty body, got %v", err)
	}
	if fc.last != nil {
		t.Fatalf("twilio must not be called")
	}
}

func TestTwilioSender_CheckRegistration(t *testing.T) {
	fc := &fakeCreator{err: &twclient.TwilioRestError{Code: 21214, Message: "not in sandbox"}}
	s := newTwilioSender(fc, Config{}, nil)

	reg := s.CheckRegistration(context.Background(), "+31612345678")
	if reg.Registered || reg.ErrorCode != 21214 || !strings.Contains(reg.Message, "<your-sandbox-code>") {
		t.Fatalf("unexpected registration %+v", reg)
	}
	if *fc.last.Body != "." {
		t.Fatalf("expected a minimal registration check body")
	}

	fc.err = nil
	if reg := s.CheckRegistration(context.Background(), "+31612345678"); !reg.Registered {
		t.Fatalf("expected registered")
	}
}

func TestNewTwilioSender_RequiresCredentials(t *testing.T) {
	if _, err := NewTwilioSender(Config{AccountSID: "AC1"}, nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestTwilioSender_RecipientErrorsKeepBreakerClosed(t *testing.T) {
	fc := &fakeCreator{err: &twclient.TwilioRestError{Code: 21214, Message: "not in sandbox", Status: 400}}
	s := newTwilioSender(fc, Config{}, nil)

	for i := 0; i < 6; i++ {
		if reg := s.CheckRegistration(context.Background(), "+31600000000"); reg.Registered || reg.ErrorCode != 21214 {
			t.Fatalf("unexpected registration %+v", reg)
		}
	}
	fc.err = &twclient.TwilioRestError{Code: 21211, Message: "invalid", Status: 400}
	for i := 0; i < 6; i++ {
		_, _ = s.Send(context.Background(), "+31600000001", "hi")
	}

	fc.err = nil
	r, err := s.Send(context.Background(), "+31611111111", "your ticket is open")
	if err != nil {
		t.Fatalf("healthy destination must still be reachable, got %v (kind %s)", err, KindOf(err))
	}
	if r.SID != "SM123" {
		t.Fatalf("unexpected receipt %+v", r)
	}
}

func TestTwilioSender_OutageOpensBreaker(t *testing.T) {
	fc := &fakeCreator{err: &twclient.TwilioRestError{Code: 20500, Message: "internal", Status: 500}}
	s := newTwilioSender(fc, Config{}, nil)

	for i := 0; i < 5; i++ {
		_, _ = s.Send(context.Background(), "+31611111111", "hi")
	}
	fc.err = nil
	if _, err := s.Send(context.Background(), "+31611111111", "hi"); KindOf(err) != KindUnavailable {
		t.Fatalf("expected open breaker, got %v", err)
	}
}

func TestRecipientError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{&twclient.TwilioRestError{Code: 21214}, true},
		{&twclient.TwilioRestError{Code: 63007}, true},
		{&twclient.TwilioRestError{Code: 21610, Status: 400}, true},
		{&twclient.TwilioRestError{Code: 20003, Status: 401}, false},
		{&twclient.TwilioRestError{Code: 20429, Status: 429}, false},
		{errors.New("connection reset"), false},
	}
	for i, tc := range cases {
		if got := recipientError(tc.err); got != tc.want {
			t.Fatalf("case %d: got %v, want %v", i, got, tc.want)
		}
	}
}
