package http

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func newRateLimitedRouter(rps float64, burst int) *gin.Engine {
	router := gin.New()
	router.GET("/party/",
		CredentialRateLimitMiddleware(rps, burst, createTestLogger()),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "welcome"})
		},
	)
	return router
}

func TestCredentialRateLimitMiddleware_AllowsWithinBurst(t *testing.T) {
	router := newRateLimitedRouter(1, 3)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/party/", nil)
		req.RemoteAddr = "203.0.113.10:1234"
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestCredentialRateLimitMiddleware_RejectsBeyondBurst(t *testing.T) {
	router := newRateLimitedRouter(0.1, 1)

	w1 := httptest.NewRecorder()
	req1 := httptest.NewRequest(http.MethodGet, "/party/", nil)
	req1.RemoteAddr = "203.0.113.10:1234"
	router.ServeHTTP(w1, req1)
	assert.Equal(t, http.StatusOK, w1.Code)

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/party/", nil)
	req2.RemoteAddr = "203.0.113.10:1234"
	router.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusTooManyRequests, w2.Code)
	assert.NotEmpty(t, w2.Header().Get("Retry-After"))
}

func TestCredentialRateLimiterStore_ConcurrentFirstAccess(t *testing.T) {
	store := &credentialRateLimiterStore{rps: 1, burst: 1}

	const workers = 16
	var wg sync.WaitGroup
	limiters := make([]*rate.Limiter, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			limiters[idx] = store.getLimiter("203.0.113.10")
		}(i)
	}
	wg.Wait()

	// Simultaneous first requests from one IP must share a single bucket,
	// otherwise each racer gets a fresh burst allowance.
	for i := 1; i < workers; i++ {
		assert.Same(t, limiters[0], limiters[i])
	}
}

func TestCredentialRateLimitMiddleware_IndependentPerIP(t *testing.T) {
	router := newRateLimitedRouter(0.1, 1)

	w1 := httptest.NewRecorder()
	req1 := httptest.NewRequest(http.MethodGet, "/party/", nil)
	req1.RemoteAddr = "203.0.113.10:1234"
	router.ServeHTTP(w1, req1)
	assert.Equal(t, http.StatusOK, w1.Code)

	// A different IP gets its own bucket.
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/party/", nil)
	req2.RemoteAddr = "203.0.113.20:1234"
	router.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusOK, w2.Code)
}
