package log

import (
	"sync"
	"time"

	kitlog "github.com/go-kit/log"
)

// RateLimitedLogger drops log lines once more than n have been logged
// within the current one-second window, so that a line logged in a tight
// loop does not flood stderr.
type RateLimitedLogger struct {
	mu       sync.Mutex
	next     kitlog.Logger
	perSecond int
	windowEnd time.Time
	count     int
}

// NewRateLimitedLogger returns a logger that forwards at most perSecond
// calls to Log within any one-second window, silently dropping the rest.
func NewRateLimitedLogger(perSecond int, next kitlog.Logger) *RateLimitedLogger {
	return &RateLimitedLogger{perSecond: perSecond, next: next}
}

// Log implements kitlog.Logger.
func (r *RateLimitedLogger) Log(keyvals ...interface{}) error {
	r.mu.Lock()
	now := time.Now()
	if now.After(r.windowEnd) {
		r.windowEnd = now.Add(time.Second)
		r.count = 0
	}
	r.count++
	drop := r.count > r.perSecond
	r.mu.Unlock()

	if drop {
		return nil
	}
	return r.next.Log(keyvals...)
}
