package oracle

import (
	"context"
	"sync"
)

// MockClient is a scripted Client for tests. Replies are returned in order;
// after the script runs out the last entry repeats.
type MockClient struct {
	mu      sync.Mutex
	Replies []string
	Err     error
	Calls   []string
}

// Classify records the prompt and returns the next scripted reply.
func (m *MockClient) Classify(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Replies) == 0 {
		return "[]", nil
	}
	idx := len(m.Calls) - 1
	if idx >= len(m.Replies) {
		idx = len(m.Replies) - 1
	}
	return m.Replies[idx], nil
}

// CallCount returns how many times Classify was invoked.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
