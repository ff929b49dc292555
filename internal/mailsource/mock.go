package mailsource

import (
	"context"
	"sync"
)

// MockSource is an in-memory Source for tests.
type MockSource struct {
	Messages []Message
	FetchErr error

	mu        sync.Mutex
	Processed map[string]int
}

// NewMockSource creates a MockSource serving the given messages.
func NewMockSource(messages ...Message) *MockSource {
	return &MockSource{
		Messages:  messages,
		Processed: make(map[string]int),
	}
}

// FetchCandidates returns the unprocessed configured messages.
func (m *MockSource) FetchCandidates(ctx context.Context, query string) ([]Message, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Message
	for _, msg := range m.Messages {
		if m.Processed[msg.ID] == 0 {
			out = append(out, msg)
		}
	}
	return out, nil
}

// MarkProcessed counts acknowledgements per id.
func (m *MockSource) MarkProcessed(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Processed[id]++
	return nil
}

// WasProcessed reports whether the id was acknowledged at least once.
func (m *MockSource) WasProcessed(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Processed[id] > 0
}
