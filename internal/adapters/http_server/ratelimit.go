package httpserver

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimit applies a per-client-IP token bucket. Used on the auth endpoints
// to slow down credential guessing; stale buckets are swept as a side effect
// of lookups.
func RateLimit(rps int) func(http.Handler) http.Handler {
	if rps <= 0 {
		rps = 5
	}
	type bucket struct {
		lim  *rate.Limiter
		seen time.Time
	}
	var (
		mu      sync.Mutex
		buckets = map[string]*bucket{}
	)
	get := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		b, ok := buckets[ip]
		if !ok {
			b = &bucket{lim: rate.NewLimiter(rate.Limit(rps), rps*2)}
			buckets[ip] = b
		}
		b.seen = time.Now()
		if len(buckets) > 10_000 {
			cutoff := time.Now().Add(-10 * time.Minute)
			for k, v := range buckets {
				if v.seen.Before(cutoff) {
					delete(buckets, k)
				}
			}
		}
		return b.lim
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !get(remoteIP(r)).Allow() {
				writeMessage(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
