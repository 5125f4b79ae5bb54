package llm

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultBaseURL is OpenRouter's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://openrouter.ai/api/v1"
)

// openRouterProvider implements CoreLLM against OpenRouter's chat
// completions API using the go-openai client with an overridden base
// URL. OpenRouter speaks the OpenAI wire format.
type openRouterProvider struct {
	model           string
	client          *openai.Client
	errorClassifier *ErrorClassifier
}

// attributionTransport injects OpenRouter's optional attribution
// headers into every request. The go-openai client has no per-request
// header hook, so the headers ride on the HTTP transport.
type attributionTransport struct {
	next    http.RoundTripper
	referer string
	title   string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	return t.next.RoundTrip(req)
}

// newOpenRouterProvider creates the OpenRouter-backed CoreLLM.
func newOpenRouterProvider(config ClientConfig) (CoreLLM, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	clientConfig := openai.DefaultConfig(config.APIKey)

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	validatedURL, err := validateBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	clientConfig.BaseURL = validatedURL

	httpClient := &http.Client{Timeout: config.Timeout}
	if config.Referer != "" || config.Title != "" {
		httpClient.Transport = &attributionTransport{
			next:    http.DefaultTransport,
			referer: config.Referer,
			title:   config.Title,
		}
	}
	clientConfig.HTTPClient = httpClient

	return &openRouterProvider{
		model:           config.Model,
		client:          openai.NewClientWithConfig(clientConfig),
		errorClassifier: &ErrorClassifier{Provider: "openrouter"},
	}, nil
}

// DoRequest sends a single user-role message and returns the reply's
// text content.
func (p *openRouterProvider) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, error) {
	options := parseRequestOptions(opts)

	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if options.Temperature != nil {
		req.Temperature = float32(clampFloat64(*options.Temperature, 0.0, 2.0))
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", p.handleError(err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoResponseChoice
	}

	return resp.Choices[0].Message.Content, nil
}

// GetModel returns the configured model identifier.
func (p *openRouterProvider) GetModel() string { return p.model }

// handleError classifies transport, context, and API errors into
// ProviderError values.
func (p *openRouterProvider) handleError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return p.errorClassifier.ClassifyContextError(err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = "unknown error"
		}
		return p.errorClassifier.ClassifyHTTPError(apiErr.HTTPStatusCode, message, err)
	}

	return NewProviderError("openrouter", ErrorTypeNetwork, 0, "request failed", err)
}
