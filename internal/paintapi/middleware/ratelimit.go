package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"paint-backend/pkg/threadsafe"
)

// RateLimit caps requests per client IP inside a fixed window. Exceeding
// clients get 429 with a Retry-After header.
type RateLimit struct {
	window *threadsafe.RateWindow
}

func NewRateLimit(window *threadsafe.RateWindow) *RateLimit {
	return &RateLimit{window: window}
}

func (rl *RateLimit) CreateHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, retryAfter := rl.window.Allow(clientIP(r))
		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
