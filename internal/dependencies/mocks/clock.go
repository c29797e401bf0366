package mocks

import (
	"sort"
	"sync"
	"time"

	"github.com/flipmatch/flipmatch-go/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing. Functions
// scheduled with AfterFunc do not run until the clock is advanced past
// their due time, letting tests step through timer-driven behavior
// deterministically. Safe for concurrent use: code under test may
// schedule from its own goroutines while the test advances.
type MockClock struct {
	mu          sync.Mutex
	CurrentTime time.Time
	pending     []scheduled
}

type scheduled struct {
	at time.Time
	f  func()
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CurrentTime
}

// AfterFunc records f to run when the clock is advanced past d
func (c *MockClock) AfterFunc(d time.Duration, f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, scheduled{at: c.CurrentTime.Add(d), f: f})
}

// Advance moves the clock forward by the given duration and fires any
// scheduled functions that have come due, in order. Due functions run
// without the clock's lock held so they may schedule further timers.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.CurrentTime = c.CurrentTime.Add(d)

	sort.SliceStable(c.pending, func(i, j int) bool {
		return c.pending[i].at.Before(c.pending[j].at)
	})

	var due []scheduled
	var remaining []scheduled
	for _, s := range c.pending {
		if !s.at.After(c.CurrentTime) {
			due = append(due, s)
		} else {
			remaining = append(remaining, s)
		}
	}
	c.pending = remaining
	c.mu.Unlock()

	for _, s := range due {
		s.f()
	}
}

// Set sets the clock to the given time without firing timers
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CurrentTime = t
}

// PendingTimers returns the number of scheduled functions not yet fired
func (c *MockClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
