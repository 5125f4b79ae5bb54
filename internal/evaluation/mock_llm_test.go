package evaluation

import (
	"context"
	"sync"
)

// mockLLMClient provides deterministic oracle replies for tests.
// The respond hook sees the full prompt, which lets tests key replies
// off record content.
type mockLLMClient struct {
	model   string
	respond func(prompt string) (string, error)

	mu      sync.Mutex
	calls   int
	prompts []string
}

func (m *mockLLMClient) Complete(_ context.Context, prompt string, _ map[string]any) (string, error) {
	m.mu.Lock()
	m.calls++
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	return m.respond(prompt)
}

func (m *mockLLMClient) GetModel() string { return m.model }

func (m *mockLLMClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// staticClient replies with the same text for every prompt.
func staticClient(response string) *mockLLMClient {
	return &mockLLMClient{
		model:   "mock-judge",
		respond: func(string) (string, error) { return response, nil },
	}
}
