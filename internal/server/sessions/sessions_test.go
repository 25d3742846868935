package sessions

import (
	"sync"
	"time"

	"github.com/AdguardTeam/golibs/testutil/faketime"
)

// testTimeout is the common timeout for tests.
const testTimeout = 5 * time.Second

// testClock is a manually advanced clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() (c *testClock, fc *faketime.Clock) {
	c = &testClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}

	return c, &faketime.Clock{
		OnNow: func() (now time.Time) {
			c.mu.Lock()
			defer c.mu.Unlock()

			return c.now
		},
	}
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}
