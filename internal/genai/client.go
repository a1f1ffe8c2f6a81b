package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"telecom-care/internal/metrics"
	"telecom-care/pkg/utils"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sony/gobreaker"
)

var (
	ErrNotConfigured = errors.New("genai: not configured")
	ErrUnavailable   = errors.New("genai: backend unavailable")
	ErrEmptyResponse = errors.New("genai: empty response")
)

// Generator turns one prompt into one completion. No conversation state is kept.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const DefaultModel = openai.ChatModelGPT4oMini

// completer is the slice of the openai-go client used here.
type completer interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

type Config struct {
	APIKey         string
	Model          string
	BreakerTimeout time.Duration
}

// OpenAI is a Generator backed by the chat completions API.
type OpenAI struct {
	completions completer
	model       openai.ChatModel
	breaker     *gobreaker.CircuitBreaker
	metrics     *metrics.Metrics
}

func NewOpenAI(cfg Config, m *metrics.Metrics) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	client := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	return newOpenAI(&client.Chat.Completions, cfg, m), nil
}

func newOpenAI(c completer, cfg Config, m *metrics.Metrics) *OpenAI {
	model := openai.ChatModel(strings.TrimSpace(cfg.Model))
	if model == "" {
		model = DefaultModel
	}
	return &OpenAI{
		completions: c,
		model:       model,
		breaker:     utils.NewCircuitBreaker("genai", cfg.BreakerTimeout, rejectedPrompt),
		metrics:     m,
	}
}

func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	out, err := o.breaker.Execute(func() (interface{}, error) {
		resp, err := o.completions.New(ctx, openai.ChatCompletionNewParams{
			Model:    o.model,
			Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			return nil, ErrEmptyResponse
		}
		return resp.Choices[0].Message.Content, nil
	})
	o.metrics.ObserveExternal("genai", time.Since(start), err)
	if err != nil {
		if errors.Is(err, ErrEmptyResponse) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return out.(string), nil
}

// rejectedPrompt is true for failures tied to one prompt: an empty
// completion, or a 4xx such as a context-length overflow.
func rejectedPrompt(err error) bool {
	if errors.Is(err, ErrEmptyResponse) {
		return true
	}
	var apiErr *openai.Error
	return errors.As(err, &apiErr) && utils.ClientStatus(apiErr.StatusCode)
}

// Disabled is used when no API key is configured. Every call fails with ErrNotConfigured.
type Disabled struct{}

func (Disabled) Generate(ctx context.Context, prompt string) (string, error) {
	return "", ErrNotConfigured
}
