package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"telecom-care/internal/metrics"
	"telecom-care/pkg/utils"

	"github.com/sony/gobreaker"
)

var (
	ErrNotConfigured   = errors.New("transcribe: not configured")
	ErrUnavailable     = errors.New("transcribe: service unavailable")
	ErrEmptyTranscript = errors.New("transcribe: empty transcript")
	ErrNoAudio         = errors.New("transcribe: no audio")
)

// Transcriber converts recorded speech into text before it enters the chat flow.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, contentType string) (string, error)
}

const DefaultBaseURL = "https://api.deepgram.com"

type Config struct {
	APIKey         string
	BaseURL        string
	BreakerTimeout time.Duration
}

// Deepgram calls the pre-recorded /v1/listen endpoint.
type Deepgram struct {
	apiKey  string
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	metrics *metrics.Metrics
}

func NewDeepgram(cfg Config, hc *http.Client, m *metrics.Metrics) (*Deepgram, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Deepgram{
		apiKey:  cfg.APIKey,
		baseURL: base,
		http:    hc,
		breaker: utils.NewCircuitBreaker("deepgram", cfg.BreakerTimeout, rejectedAudio),
		metrics: m,
	}, nil
}

type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

func (d *Deepgram) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	if len(audio) == 0 {
		return "", ErrNoAudio
	}
	if contentType == "" {
		contentType = "audio/wav"
	}

	start := time.Now()
	out, err := d.breaker.Execute(func() (interface{}, error) {
		return d.listen(ctx, audio, contentType)
	})
	d.metrics.ObserveExternal("deepgram", time.Since(start), err)
	if err != nil {
		if errors.Is(err, ErrEmptyTranscript) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return out.(string), nil
}

func (d *Deepgram) listen(ctx context.Context, audio []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/v1/listen", bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Token "+d.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := d.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(snippet))}
	}

	var body listenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode deepgram response: %w", err)
	}
	if len(body.Results.Channels) == 0 || len(body.Results.Channels[0].Alternatives) == 0 {
		return "", ErrEmptyTranscript
	}
	text := strings.TrimSpace(body.Results.Channels[0].Alternatives[0].Transcript)
	if text == "" {
		return "", ErrEmptyTranscript
	}
	return text, nil
}

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("deepgram status %d: %s", e.status, e.body)
}

// rejectedAudio is true when Deepgram refused this recording rather than failed.
func rejectedAudio(err error) bool {
	if errors.Is(err, ErrEmptyTranscript) {
		return true
	}
	var se *statusError
	return errors.As(err, &se) && utils.ClientStatus(se.status)
}

// Disabled is used when no API key is configured.
type Disabled struct{}

func (Disabled) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	return "", ErrNotConfigured
}
