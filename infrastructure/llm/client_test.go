package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// chatHandler serves an OpenAI-compatible chat completions endpoint
// with a fixed reply, capturing the last request for inspection.
type chatHandler struct {
	reply       string
	status      int
	delay       time.Duration
	lastHeaders http.Header
	lastBody    map[string]any
}

func (h *chatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.lastHeaders = r.Header.Clone()
	_ = json.NewDecoder(r.Body).Decode(&h.lastBody)

	if h.delay > 0 {
		time.Sleep(h.delay)
	}

	if h.status != 0 && h.status != http.StatusOK {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(h.status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "upstream says no", "type": "api_error"},
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": h.reply}},
		},
	})
}

func newTestClient(t *testing.T, handler *chatHandler, mw ...Middleware) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		APIKey:     "test-key",
		Model:      "test-model",
		BaseURL:    server.URL,
		Referer:    "http://localhost:3001",
		Title:      "Test Harness",
		Middleware: mw,
	})
	require.NoError(t, err)
	return client
}

func TestClient_Complete(t *testing.T) {
	handler := &chatHandler{reply: "the verdict"}
	client := newTestClient(t, handler)

	out, err := client.Complete(context.Background(), "score this", map[string]any{
		"temperature": 0.3,
		"max_tokens":  2048,
	})

	require.NoError(t, err)
	assert.Equal(t, "the verdict", out)
	assert.Equal(t, "test-model", client.GetModel())

	assert.Equal(t, "test-model", handler.lastBody["model"])
	assert.InDelta(t, 0.3, handler.lastBody["temperature"], 1e-6)
	assert.Equal(t, float64(2048), handler.lastBody["max_tokens"])

	messages, ok := handler.lastBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "score this", msg["content"])
}

func TestClient_AttributionHeaders(t *testing.T) {
	handler := &chatHandler{reply: "ok"}
	client := newTestClient(t, handler)

	_, err := client.Complete(context.Background(), "p", nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3001", handler.lastHeaders.Get("HTTP-Referer"))
	assert.Equal(t, "Test Harness", handler.lastHeaders.Get("X-Title"))
	assert.Equal(t, "Bearer test-key", handler.lastHeaders.Get("Authorization"))
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantType ErrorType
	}{
		{"rate limited", http.StatusTooManyRequests, ErrorTypeRateLimit},
		{"bad key", http.StatusUnauthorized, ErrorTypeAuthentication},
		{"unknown model", http.StatusNotFound, ErrorTypeNotFound},
		{"provider down", http.StatusBadGateway, ErrorTypeServerError},
		{"bad request", http.StatusBadRequest, ErrorTypeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, &chatHandler{status: tt.status})

			_, err := client.Complete(context.Background(), "p", nil)
			require.Error(t, err)

			var provErr *ProviderError
			require.ErrorAs(t, err, &provErr)
			assert.Equal(t, tt.wantType, provErr.Type)
			assert.Equal(t, tt.status, provErr.StatusCode)
			assert.Equal(t, "openrouter", provErr.Provider)
		})
	}
}

func TestClient_TimeoutMiddleware(t *testing.T) {
	handler := &chatHandler{reply: "too late", delay: 200 * time.Millisecond}
	client := newTestClient(t, handler, TimeoutMiddleware(20*time.Millisecond))

	_, err := client.Complete(context.Background(), "p", nil)
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, ErrorTypeTimeout, provErr.Type)
}

func TestClient_RateLimitThenTimeoutChain(t *testing.T) {
	// The assembled chain: pacing outermost, deadline inner. The
	// deadline must bound the request itself, not the token wait.
	handler := &chatHandler{reply: "too late", delay: 200 * time.Millisecond}
	client := newTestClient(t, handler,
		RateLimitMiddleware(rate.Limit(100), 1),
		TimeoutMiddleware(20*time.Millisecond),
	)

	_, err := client.Complete(context.Background(), "p", nil)
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, ErrorTypeTimeout, provErr.Type)
}

func TestClient_RateLimitMiddleware(t *testing.T) {
	handler := &chatHandler{reply: "ok"}
	// 20 req/s with burst 1 forces roughly 50ms between calls.
	client := newTestClient(t, handler, RateLimitMiddleware(rate.Limit(20), 1))

	start := time.Now()
	for n := 0; n < 3; n++ {
		_, err := client.Complete(context.Background(), "p", nil)
		require.NoError(t, err)
	}

	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(ClientConfig{Model: "m"})
	assert.ErrorIs(t, err, ErrEmptyAPIKey)

	_, err = NewClient(ClientConfig{APIKey: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model is required")

	_, err = NewClient(ClientConfig{APIKey: "k", Model: "m", BaseURL: "ftp://example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme must be http or https")
}

func TestParseRequestOptions(t *testing.T) {
	tests := []struct {
		name     string
		opts     map[string]any
		wantTemp *float64
		wantMax  int
	}{
		{"nil map", nil, nil, 0},
		{"valid values", map[string]any{"temperature": 0.3, "max_tokens": 100}, ptr(0.3), 100},
		{"wrong types ignored", map[string]any{"temperature": "hot", "max_tokens": "many"}, nil, 0},
		{"out of range temperature ignored", map[string]any{"temperature": 3.0}, nil, 0},
		{"non-positive max tokens ignored", map[string]any{"max_tokens": 0}, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseRequestOptions(tt.opts)
			if tt.wantTemp == nil {
				assert.Nil(t, got.Temperature)
			} else {
				require.NotNil(t, got.Temperature)
				assert.Equal(t, *tt.wantTemp, *got.Temperature)
			}
			assert.Equal(t, tt.wantMax, got.MaxTokens)
		})
	}
}

func ptr(f float64) *float64 { return &f }
