// Package llm provides the client used to reach the scoring oracle.
//
// The oracle sits behind OpenRouter's OpenAI-compatible chat
// completions API. The package wraps the provider behind a small
// CoreLLM interface and composes cross-cutting behavior (request
// pacing, timeouts) through a middleware chain, so the evaluation code
// never deals with transport details.
package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// CoreLLM is the minimal surface a provider must implement. The
// middleware chain wraps any conforming implementation.
type CoreLLM interface {
	// DoRequest sends a single user-role prompt and returns the reply's
	// text content. The opts map carries request parameters such as
	// "temperature" and "max_tokens".
	DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, error)

	// GetModel returns the configured model identifier.
	GetModel() string
}

// Middleware wraps a CoreLLM to add cross-cutting behavior without
// touching provider logic. Middleware are applied in the order given,
// first entry outermost.
type Middleware func(CoreLLM) CoreLLM

// ClientConfig holds everything needed to construct an oracle client.
type ClientConfig struct {
	// APIKey authenticates requests. Required.
	APIKey string

	// Model is the model identifier sent with every request. Required.
	Model string

	// BaseURL overrides the default OpenRouter endpoint. Leave empty
	// for the default.
	BaseURL string

	// Referer and Title are OpenRouter's optional attribution headers
	// (HTTP-Referer and X-Title).
	Referer string
	Title   string

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// Middleware is applied around the provider, first entry outermost.
	Middleware []Middleware
}

// Client is the assembled oracle client: provider plus middleware.
type Client struct {
	core CoreLLM
}

// NewClient builds a Client for the OpenRouter provider described by
// config and wraps it with the configured middleware chain.
func NewClient(config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	core, err := newOpenRouterProvider(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	// Apply middleware in reverse order so the first entry is outermost.
	var wrapped CoreLLM = core
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		wrapped = config.Middleware[i](wrapped)
	}

	return &Client{core: wrapped}, nil
}

// Complete sends a prompt through the middleware chain and returns the
// reply text.
func (c *Client) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	return c.core.DoRequest(ctx, prompt, options)
}

// GetModel returns the model identifier of the underlying provider.
func (c *Client) GetModel() string { return c.core.GetModel() }

// rateLimitedLLM paces requests with a token bucket. OpenRouter
// enforces per-key request rates, and a batch run with any parallelism
// trips them quickly without client-side pacing.
type rateLimitedLLM struct {
	next    CoreLLM
	limiter *rate.Limiter
}

// RateLimitMiddleware creates middleware that enforces a sustained
// request rate with the given burst allowance.
func RateLimitMiddleware(limit rate.Limit, burst int) Middleware {
	limiter := rate.NewLimiter(limit, burst)

	return func(next CoreLLM) CoreLLM {
		return &rateLimitedLLM{next: next, limiter: limiter}
	}
}

// DoRequest blocks until a token is available, then forwards the call.
func (r *rateLimitedLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}
	return r.next.DoRequest(ctx, prompt, opts)
}

// GetModel returns the model name from the wrapped implementation.
func (r *rateLimitedLLM) GetModel() string { return r.next.GetModel() }

// timeoutLLM bounds each request with a context deadline.
type timeoutLLM struct {
	next    CoreLLM
	timeout time.Duration
}

// TimeoutMiddleware creates middleware that enforces a per-request
// timeout in addition to the HTTP client's own.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &timeoutLLM{next: next, timeout: timeout}
	}
}

// DoRequest executes the request under a deadline-bound context.
func (t *timeoutLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.DoRequest(ctx, prompt, opts)
}

// GetModel returns the model name from the wrapped implementation.
func (t *timeoutLLM) GetModel() string { return t.next.GetModel() }
