// Package llm wraps the chat completion API used for content generation.
//
// Every call asks the model for a single JSON object and decodes it into a
// caller supplied value. Transport and API failures surface as ErrUpstream,
// undecodable or incomplete payloads as ErrInvalidResponse. No retries are
// attempted; failures go straight back to the caller.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"golang.org/x/time/rate"

	"github.com/qs3c/sports_content_server/config"
	"github.com/qs3c/sports_content_server/internal/pkg/metrics"
)

var (
	ErrUpstream        = errors.New("completion request failed")
	ErrInvalidResponse = errors.New("invalid response format from AI")
)

// Validator is implemented by response payloads that check their own shape
// after decoding.
type Validator interface {
	Validate() error
}

type Client struct {
	model   llms.Model
	limiter *rate.Limiter
	timeout time.Duration
}

// NewOpenAI creates a client backed by the OpenAI chat completions API.
func NewOpenAI(cfg config.OpenAIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key required")
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}

	return New(model, cfg), nil
}

// New wraps an arbitrary langchaingo model.
func New(model llms.Model, cfg config.OpenAIConfig) *Client {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		model:   model,
		limiter: rate.NewLimiter(limit, burst),
		timeout: cfg.Timeout,
	}
}

// CompleteJSON sends the system and user prompt and decodes the JSON reply
// into out. operation only labels metrics.
func (c *Client) CompleteJSON(ctx context.Context, operation, system, prompt string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %w", ErrUpstream, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}

	start := time.Now()
	resp, err := c.model.GenerateContent(ctx, messages, llms.WithJSONMode())
	metrics.CompletionDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(operation, metrics.ResultUpstreamError).Inc()
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	if err := decode(resp, out); err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(operation, metrics.ResultInvalidResponse).Inc()
		return err
	}

	metrics.CompletionRequestsTotal.WithLabelValues(operation, metrics.ResultSuccess).Inc()
	return nil
}

func decode(resp *llms.ContentResponse, out any) error {
	text := "{}"
	if resp != nil && len(resp.Choices) > 0 && resp.Choices[0] != nil {
		if t := stripCodeFence(resp.Choices[0].Content); t != "" {
			text = t
		}
	}

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	if v, ok := out.(Validator); ok {
		if err := v.Validate(); err != nil {
			if errors.Is(err, ErrInvalidResponse) {
				return err
			}
			return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
	}
	return nil
}

// stripCodeFence removes a surrounding ```json fence some models emit even in
// JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
