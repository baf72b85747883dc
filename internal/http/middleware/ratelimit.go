package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"collabhub/internal/common"
	"collabhub/internal/http/response"
)

type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

// RateLimiter is an in-process token bucket per key: limit events per window
// with a burst of limit. Idle buckets are dropped after idleTTL.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	idleTTL time.Duration
	sweepAt time.Time
	now     func() time.Time
}

type rateBucket struct {
	limiter  *rate.Limiter
	limit    int
	window   time.Duration
	lastSeen time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		idleTTL: 10 * time.Minute,
		now:     time.Now,
	}
}

func (r *RateLimiter) Allow(key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.sweep(now)
	bucket, ok := r.buckets[key]
	if !ok || bucket.limit != limit || bucket.window != window {
		every := rate.Every(window / time.Duration(limit))
		bucket = &rateBucket{limiter: rate.NewLimiter(every, limit), limit: limit, window: window}
		r.buckets[key] = bucket
	}
	bucket.lastSeen = now
	return bucket.limiter.AllowN(now, 1)
}

func (r *RateLimiter) sweep(now time.Time) {
	if now.Before(r.sweepAt) {
		return
	}
	for key, bucket := range r.buckets {
		if now.Sub(bucket.lastSeen) > r.idleTTL {
			delete(r.buckets, key)
		}
	}
	r.sweepAt = now.Add(r.idleTTL)
}

// RateLimit rejects requests whose key exceeded limit within window. An empty
// key or a nil limiter lets the request through.
func RateLimit(limiter Limiter, keyFn func(*http.Request) string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}
			key := keyFn(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.Allow(key, limit, window) {
				response.Error(w, common.NewError(common.CodeRateLimited, "rate limit exceeded", nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserKey keys a limit on the authenticated user, falling back to the client IP.
func UserKey(prefix string) func(*http.Request) string {
	return func(r *http.Request) string {
		if userID, ok := UserIDFromContext(r.Context()); ok {
			return prefix + ":" + userID.String()
		}
		return prefix + ":ip:" + ClientIP(r)
	}
}

func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
