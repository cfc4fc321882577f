package core

import (
	"sync"
	"time"
)

// IDGenerator hands out transaction ids derived from the creation time in
// milliseconds. Ids are strictly increasing even when several transactions
// are created within the same millisecond.
type IDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns a fresh id and the creation instant it was derived from.
func (g *IDGenerator) Next() (int64, time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	created := g.now()
	id := created.UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id, created
}

// Observe makes sure future ids sort after id. Stores call it with the
// highest id they already hold.
func (g *IDGenerator) Observe(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id > g.last {
		g.last = id
	}
}
