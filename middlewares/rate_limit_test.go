package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterBurst(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	rl := NewRateLimiter(1, 2, log)

	r := gin.New()
	r.GET("/ping", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))

	// buckets are per client
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.2"))

	assert.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, "rate limit exceeded", hook.LastEntry().Message)
}

func TestRateLimiterCleanup(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	rl := NewRateLimiter(1, 1, log)
	rl.limiter("a")
	rl.limiter("b")
	rl.visitors["a"].lastSeen = time.Now().Add(-time.Hour)

	rl.Cleanup(10 * time.Minute)
	assert.NotContains(t, rl.visitors, "a")
	assert.Contains(t, rl.visitors, "b")
}
