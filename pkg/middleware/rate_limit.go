package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"staybook/pkg/logger"
)

type SessionExtractor func(r *http.Request) string

// SessionRateLimiter bounds how fast a single booking session can hit the
// API. Keyed per session so one aggressive client cannot starve others.
type SessionRateLimiter struct {
	mu        sync.RWMutex
	requests  map[string][]time.Time
	limit     int
	window    time.Duration
	extractor SessionExtractor
	log       *logger.Logger
	stopCh    chan struct{}
}

func NewSessionRateLimiter(limit int, window time.Duration, extractor SessionExtractor, log *logger.Logger) *SessionRateLimiter {
	limiter := &SessionRateLimiter{
		requests:  make(map[string][]time.Time),
		limit:     limit,
		window:    window,
		extractor: extractor,
		log:       log,
		stopCh:    make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *SessionRateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for session, timestamps := range rl.requests {
				if len(timestamps) == 0 || time.Since(timestamps[len(timestamps)-1]) > rl.window {
					delete(rl.requests, session)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *SessionRateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *SessionRateLimiter) Allow(session string) bool {
	if session == "" {
		return true
	}

	now := time.Now()

	rl.mu.RLock()
	timestamps := rl.requests[session]
	rl.mu.RUnlock()

	validTimestamps := make([]time.Time, 0)
	for _, ts := range timestamps {
		if now.Sub(ts) < rl.window {
			validTimestamps = append(validTimestamps, ts)
		}
	}

	if len(validTimestamps) >= rl.limit {
		return false
	}

	validTimestamps = append(validTimestamps, now)

	rl.mu.Lock()
	rl.requests[session] = validTimestamps
	rl.mu.Unlock()

	return true
}

func SessionRateLimit(limiter *SessionRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := extractSession(r, limiter.extractor)

			if session == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(session) {
				rejectRateLimited(w, limiter.log, r, session)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractSession(r *http.Request, extractor SessionExtractor) string {
	if extractor == nil {
		return DefaultSessionExtractor(r)
	}
	return extractor(r)
}

func rejectRateLimited(w http.ResponseWriter, log *logger.Logger, r *http.Request, session string) {
	log.Warn("Rate limit exceeded",
		"request_id", RequestID(r),
		"session_id", session,
		"path", r.URL.Path,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"error":"Rate limit exceeded"}`))
}

// DefaultSessionExtractor prefers the X-Session-ID header and falls back to
// the session segment of cart URLs (/api/v1/carts/:session/...).
func DefaultSessionExtractor(r *http.Request) string {
	if sid := r.Header.Get("X-Session-ID"); sid != "" {
		return sid
	}

	const prefix = "/api/v1/carts/"
	if strings.HasPrefix(r.URL.Path, prefix) {
		rest := r.URL.Path[len(prefix):]
		if i := strings.IndexByte(rest, '/'); i > 0 {
			return rest[:i]
		}
		return rest
	}

	return ""
}
