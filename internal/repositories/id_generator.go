package repositories

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator hands out millisecond-timestamp ids that never repeat within the
// process: when two calls land in the same millisecond the second id is bumped
// past the first.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns a fresh id and the creation instant it was derived from.
func (g *IDGenerator) Next() (string, time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	ts := g.now().UTC().Truncate(time.Millisecond)
	n := ts.UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	return strconv.FormatInt(n, 10), ts
}

// Observe moves the generator past an id that already exists.
func (g *IDGenerator) Observe(id string) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if n > g.last {
		g.last = n
	}
}
