package threadsafe

import (
	"sync"
	"time"
)

type windowEntry struct {
	count    int
	resetsAt time.Time
}

// RateWindow is a fixed-window request counter keyed by an arbitrary string
// (client IP, user id). Allow reports whether another request fits into the
// current window and, when it does not, how long until the window resets.
type RateWindow struct {
	inner       map[string]windowEntry
	maxRequests int
	window      time.Duration
	mux         *sync.Mutex
	now         func() time.Time
}

func NewRateWindow(maxRequests int, window time.Duration) *RateWindow {
	return &RateWindow{
		inner:       make(map[string]windowEntry),
		maxRequests: maxRequests,
		window:      window,
		mux:         &sync.Mutex{},
		now:         time.Now,
	}
}

func (r *RateWindow) Allow(key string) (allowed bool, retryAfter time.Duration) {
	r.mux.Lock()
	defer r.mux.Unlock()
	now := r.now()
	entry, ok := r.inner[key]
	if !ok || now.After(entry.resetsAt) {
		r.inner[key] = windowEntry{count: 1, resetsAt: now.Add(r.window)}
		return true, 0
	}
	if entry.count >= r.maxRequests {
		return false, entry.resetsAt.Sub(now)
	}
	entry.count++
	r.inner[key] = entry
	return true, 0
}

// Cleanup removes keys whose window already elapsed.
func (r *RateWindow) Cleanup() int {
	r.mux.Lock()
	defer r.mux.Unlock()
	now := r.now()
	removed := 0
	for key, entry := range r.inner {
		if now.After(entry.resetsAt) {
			delete(r.inner, key)
			removed++
		}
	}
	return removed
}
