package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// credentialLimiterTTL is how long an idle client keeps its bucket before the
// cleanup loop drops it.
const credentialLimiterTTL = time.Hour

// credentialRateLimiterStore holds one token bucket per client IP.
type credentialRateLimiterStore struct {
	limiters sync.Map // client IP -> *credentialRateLimiterEntry
	rps      float64
	burst    int
}

type credentialRateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess atomic.Int64 // unix nanoseconds
}

// CredentialRateLimitMiddleware throttles guarded routes per client IP.
//
// The guard accepts raw ticket credentials from unauthenticated clients, so
// the credential-presentation path is a password brute force target. Client
// identity comes from c.ClientIP(), which honors X-Forwarded-For and X-Real-IP
// before falling back to the remote address. Rejected requests get a 429 with
// a Retry-After header.
func CredentialRateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := &credentialRateLimiterStore{rps: rps, burst: burst}

	// Stale buckets are reaped in the background; the loop lives as long as
	// the process, same as the route it protects.
	go store.cleanupStale(context.Background(), 5*time.Minute)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		limiter := store.getLimiter(clientIP)

		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(reservation.Delay().Seconds())
			reservation.Cancel()

			logger.Debug("credential rate limit exceeded",
				slog.String("client_ip", clientIP),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": "too many credential attempts from this address, retry later",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getLimiter returns the bucket for an IP, creating it on first access.
// LoadOrStore keeps concurrent first requests from one IP on a single bucket.
func (s *credentialRateLimiterStore) getLimiter(ip string) *rate.Limiter {
	fresh := &credentialRateLimiterEntry{
		limiter: rate.NewLimiter(rate.Limit(s.rps), s.burst),
	}
	val, _ := s.limiters.LoadOrStore(ip, fresh)
	entry := val.(*credentialRateLimiterEntry)
	entry.lastAccess.Store(time.Now().UnixNano())
	return entry.limiter
}

// cleanupStale drops buckets idle longer than credentialLimiterTTL so IP
// churn cannot grow the store without bound.
func (s *credentialRateLimiterStore) cleanupStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			threshold := time.Now().Add(-credentialLimiterTTL).UnixNano()
			s.limiters.Range(func(key, value any) bool {
				entry := value.(*credentialRateLimiterEntry)
				if entry.lastAccess.Load() < threshold {
					s.limiters.Delete(key)
				}
				return true
			})
		}
	}
}
