package event

import (
	"sync"
	"time"
)

// Clock assigns strictly increasing occurred-at timestamps so staleness
// comparisons on the client side never tie between distinct events.
type Clock struct {
	mu   sync.Mutex
	last time.Time
}

func NewClock() *Clock {
	return &Clock{}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UTC()
	if !now.After(c.last) {
		now = c.last.Add(time.Microsecond)
	}
	c.last = now
	return now
}
