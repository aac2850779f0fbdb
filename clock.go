package tasksolver

import (
	"sync"
	"time"
)

// TimeProvider is the clock used to stamp events. Inject a MockTimeProvider
// in tests to get deterministic timestamps.
type TimeProvider interface {
	Now() time.Time
}

// DefaultTimeProvider uses the system clock.
type DefaultTimeProvider struct{}

// NewDefaultTimeProvider creates a new DefaultTimeProvider.
func NewDefaultTimeProvider() *DefaultTimeProvider {
	return &DefaultTimeProvider{}
}

// Now returns the current system time.
func (p *DefaultTimeProvider) Now() time.Time {
	return time.Now()
}

// MockTimeProvider returns a fixed time, optionally advancing it on every
// call.
type MockTimeProvider struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewMockTimeProvider creates a MockTimeProvider with the given fixed time.
func NewMockTimeProvider(t time.Time) *MockTimeProvider {
	return &MockTimeProvider{now: t}
}

// SetTime updates the time returned by Now.
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// SetStep makes every Now call advance the clock by d after returning.
func (m *MockTimeProvider) SetStep(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.step = d
}

// Advance moves the clock forward by d.
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Now returns the current mock time.
func (m *MockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.now
	m.now = m.now.Add(m.step)
	return t
}

// Compile-time check that MockTimeProvider implements TimeProvider.
var _ TimeProvider = (*MockTimeProvider)(nil)
