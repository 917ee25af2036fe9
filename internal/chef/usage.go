package chef

import (
	"sync"
	"time"
)

// Usage counts model requests. It is informational only: nothing consults
// it before sending a request.
type Usage struct {
	mu    sync.Mutex
	count int
	last  time.Time
	now   func() time.Time
}

// NewUsage returns an empty counter.
func NewUsage() *Usage {
	return &Usage{now: time.Now}
}

// Record notes one request at the current time.
func (u *Usage) Record() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.count++
	if u.now == nil {
		u.now = time.Now
	}
	u.last = u.now()
}

// Snapshot returns the request count and the time of the last request.
// The time is zero when nothing has been recorded.
func (u *Usage) Snapshot() (int, time.Time) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.count, u.last
}
