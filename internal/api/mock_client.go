package api

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of ClientInterface for testing
type MockClient struct {
	// Mock return values
	ConverseVal string
	ConverseErr error
	MusicVal    string
	MusicErr    error
	DownloadVal string
	DownloadErr error
	BaseURLVal  string

	// Optional hooks, used instead of the values above when set
	ConverseFunc func(ctx context.Context, prompt string) (string, error)
	MusicFunc    func(ctx context.Context, prompt string) (string, error)

	mu            sync.Mutex
	converseCalls []string
	musicCalls    []string
	downloadCalls []string
	closeCalled   bool
}

// Ensure MockClient implements ClientInterface
var _ ClientInterface = (*MockClient)(nil)

func (m *MockClient) Converse(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.converseCalls = append(m.converseCalls, prompt)
	fn := m.ConverseFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt)
	}
	return m.ConverseVal, m.ConverseErr
}

func (m *MockClient) GenerateMusic(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.musicCalls = append(m.musicCalls, prompt)
	fn := m.MusicFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt)
	}
	return m.MusicVal, m.MusicErr
}

func (m *MockClient) DownloadAsset(ctx context.Context, assetURL string, opts DownloadOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.downloadCalls = append(m.downloadCalls, assetURL)
	return m.DownloadVal, m.DownloadErr
}

func (m *MockClient) BaseURL() string {
	return m.BaseURLVal
}

func (m *MockClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalled = true
}

// ConverseCalls returns the prompts passed to Converse
func (m *MockClient) ConverseCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.converseCalls...)
}

// MusicCalls returns the prompts passed to GenerateMusic
func (m *MockClient) MusicCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.musicCalls...)
}

// DownloadCalls returns the URLs passed to DownloadAsset
func (m *MockClient) DownloadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.downloadCalls...)
}

// CloseCalled reports whether Close was called
func (m *MockClient) CloseCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalled
}
