package collab

import (
	"sync"
	"time"

	"github.com/Jaganravi131/DesignSync/internal/presence"
)

// joinLimiter bounds credential-verification work per connection with a
// sliding window.
type joinLimiter struct {
	mu       sync.Mutex
	history  map[presence.ConnID][]time.Time
	limit    int
	interval time.Duration
}

func newJoinLimiter(limit int, interval time.Duration) *joinLimiter {
	return &joinLimiter{
		history:  make(map[presence.ConnID][]time.Time),
		limit:    limit,
		interval: interval,
	}
}

func (rl *joinLimiter) Allow(id presence.ConnID) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.interval)

	attempts := rl.history[id]
	fresh := make([]time.Time, 0, len(attempts))
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[id] = fresh
		return false
	}

	rl.history[id] = append(fresh, now)
	return true
}

func (rl *joinLimiter) Forget(id presence.ConnID) {
	rl.mu.Lock()
	delete(rl.history, id)
	rl.mu.Unlock()
}
