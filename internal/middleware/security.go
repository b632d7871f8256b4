package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"groupchat-backend/pkg/clientip"
)

// SecurityHeaders sets security-related response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// --- Login rate limiting (per-IP, in-process token bucket) ---

const (
	loginRateLimitRPS   = 0.2 // one attempt every 5s sustained
	loginRateLimitBurst = 5
	loginLimiterTTL     = 30 * time.Minute
	loginCleanupPeriod  = 5 * time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// LoginLimiter rate-limits credential endpoints per client IP.
type LoginLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	once    sync.Once
}

func NewLoginLimiter() *LoginLimiter {
	return &LoginLimiter{entries: make(map[string]*limiterEntry)}
}

func (l *LoginLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.once.Do(func() { go l.cleanupLoop() })

	entry, ok := l.entries[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(loginRateLimitRPS), loginRateLimitBurst)}
		l.entries[ip] = entry
	}
	entry.lastUse = time.Now()
	return entry.limiter
}

func (l *LoginLimiter) cleanupLoop() {
	for range time.Tick(loginCleanupPeriod) {
		l.mu.Lock()
		for ip, entry := range l.entries {
			if time.Since(entry.lastUse) > loginLimiterTTL {
				delete(l.entries, ip)
			}
		}
		l.mu.Unlock()
	}
}

// Middleware returns 429 when the caller exceeds the login attempt budget.
func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientip.RealClientIP(r)
		if !l.get(ip).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"message":"Too many attempts. Please try again later."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
