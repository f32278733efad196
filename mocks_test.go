package authclient_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	authclient "github.com/goliatone/go-authclient"
)

// MockProfileSource implements authclient.ProfileSource
type MockProfileSource struct {
	mock.Mock
	role authclient.Role
}

func NewMockProfileSource(role authclient.Role) *MockProfileSource {
	return &MockProfileSource{role: role}
}

func (m *MockProfileSource) Role() authclient.Role {
	return m.role
}

func (m *MockProfileSource) Lookup(ctx context.Context, identityID string) (*authclient.Profile, error) {
	args := m.Called(ctx, identityID)
	profile, _ := args.Get(0).(*authclient.Profile)
	return profile, args.Error(1)
}

// MockAuthProvider implements authclient.AuthProvider
type MockAuthProvider struct {
	mock.Mock
}

func (m *MockAuthProvider) CurrentIdentity(ctx context.Context) (authclient.Identity, error) {
	args := m.Called(ctx)
	identity, _ := args.Get(0).(authclient.Identity)
	return identity, args.Error(1)
}

func (m *MockAuthProvider) SignOut(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// failingKeyValue simulates an unavailable storage backend.
type failingKeyValue struct {
	err error
}

func (f *failingKeyValue) Read(context.Context, string) (string, error) {
	return "", f.err
}

func (f *failingKeyValue) Write(context.Context, string, string) error {
	return f.err
}

// memoryKeyValue is a minimal in-test KeyValue so the root package tests do
// not depend on the store subpackage.
type memoryKeyValue struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryKeyValue() *memoryKeyValue {
	return &memoryKeyValue{values: map[string]string{}}
}

func (m *memoryKeyValue) Read(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *memoryKeyValue) Write(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value == "" {
		delete(m.values, key)
		return nil
	}
	m.values[key] = value
	return nil
}

// captureLogger records log lines for assertions.
type captureLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *captureLogger) record(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
}

func (l *captureLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines)
}

func (l *captureLogger) Debug(format string, _ ...any) { l.record(format) }
func (l *captureLogger) Info(format string, _ ...any)  { l.record(format) }
func (l *captureLogger) Warn(format string, _ ...any)  { l.record(format) }
func (l *captureLogger) Error(format string, _ ...any) { l.record(format) }

// captureSink records activity events for assertions.
type captureSink struct {
	mu     sync.Mutex
	events []authclient.ActivityEvent
}

func (s *captureSink) Record(_ context.Context, event authclient.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *captureSink) byType(t authclient.ActivityEventType) []authclient.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	matches := []authclient.ActivityEvent{}
	for _, event := range s.events {
		if event.EventType == t {
			matches = append(matches, event)
		}
	}
	return matches
}
