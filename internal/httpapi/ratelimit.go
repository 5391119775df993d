package httpapi

import (
	"log"
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// ClientLimiter rate-limits per client IP. A non-positive rate disables it.
type ClientLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
	b  int
}

func NewClientLimiter(reqPerSec float64, burst int) *ClientLimiter {
	return &ClientLimiter{
		m: make(map[string]*rate.Limiter),
		r: rate.Limit(reqPerSec),
		b: burst,
	}
}

// SetLimit applies new settings; existing clients start over.
func (cl *ClientLimiter) SetLimit(reqPerSec float64, burst int) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.r = rate.Limit(reqPerSec)
	cl.b = burst
	cl.m = make(map[string]*rate.Limiter)
}

func (cl *ClientLimiter) limiterFor(client string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.r <= 0 {
		return nil
	}
	if lim, ok := cl.m[client]; ok {
		return lim
	}
	b := cl.b
	if b < 1 {
		b = 1
	}
	lim := rate.NewLimiter(cl.r, b)
	cl.m[client] = lim
	return lim
}

// Allow reports whether client may make a request now.
func (cl *ClientLimiter) Allow(client string) bool {
	lim := cl.limiterFor(client)
	return lim == nil || lim.Allow()
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit rejects requests over the client's budget with 429. A nil
// limiter lets everything through.
func RateLimit(cl *ClientLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		if cl == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !cl.Allow(ip) {
				log.Printf("level=warn msg=\"rate limited\" request_id=%s client=%s path=%s",
					RequestIDFrom(r.Context()), ip, r.URL.Path)
				w.Header().Set("Retry-After", "1")
				WriteError(w, r, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
