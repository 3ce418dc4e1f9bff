package testutil

import (
	"context"
	"sync"

	"poassist/model"
)

// MockProvider implements model.Provider for testing
type MockProvider struct {
	// Configurable response
	SendPromptFunc func(ctx context.Context, prompt string) model.Result

	mu      sync.Mutex
	prompts []string
}

// NewMockProvider creates a mock provider that always answers with content
func NewMockProvider(content string) *MockProvider {
	return &MockProvider{
		SendPromptFunc: func(ctx context.Context, prompt string) model.Result {
			return model.Result{Content: content}
		},
	}
}

// NewFailingProvider creates a mock provider that always reports msg
func NewFailingProvider(msg string) *MockProvider {
	return &MockProvider{
		SendPromptFunc: func(ctx context.Context, prompt string) model.Result {
			return model.Result{Error: msg}
		},
	}
}

func (m *MockProvider) SendPrompt(ctx context.Context, prompt string) model.Result {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	return m.SendPromptFunc(ctx, prompt)
}

// Calls returns how many prompts were sent
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// LastPrompt returns the most recent prompt, or "" if none
func (m *MockProvider) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// MockResolver implements model.ProviderResolver for testing
type MockResolver struct {
	// Default is returned for any selection without an entry in Providers
	Default   model.Provider
	Providers map[model.ModelSelection]model.Provider
	Errors    map[model.ModelSelection]error

	mu       sync.Mutex
	resolved []model.ModelSelection
}

// NewMockResolver resolves every selection to p
func NewMockResolver(p model.Provider) *MockResolver {
	return &MockResolver{
		Default:   p,
		Providers: make(map[model.ModelSelection]model.Provider),
		Errors:    make(map[model.ModelSelection]error),
	}
}

func (r *MockResolver) Resolve(sel model.ModelSelection) (model.Provider, error) {
	r.mu.Lock()
	r.resolved = append(r.resolved, sel)
	r.mu.Unlock()

	if err, ok := r.Errors[sel]; ok {
		return nil, err
	}
	if p, ok := r.Providers[sel]; ok {
		return p, nil
	}
	return r.Default, nil
}

// Resolved returns every selection Resolve was called with, in order
func (r *MockResolver) Resolved() []model.ModelSelection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.ModelSelection(nil), r.resolved...)
}

// MemoryStateStore implements model.StateStore in memory
type MemoryStateStore struct {
	mu    sync.Mutex
	saves []model.Snapshot
}

func (s *MemoryStateStore) SaveSnapshot(snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves = append(s.saves, snap)
	return nil
}

// Saves returns how many snapshots were stored
func (s *MemoryStateStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saves)
}

// Last returns the most recent snapshot
func (s *MemoryStateStore) Last() (model.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saves) == 0 {
		return model.Snapshot{}, false
	}
	return s.saves[len(s.saves)-1], true
}
