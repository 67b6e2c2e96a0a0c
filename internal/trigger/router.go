package trigger

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ISO-8601 with milliseconds, always UTC
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// RunFunc executes one pipeline run. Its result is only logged.
type RunFunc func(ctx context.Context)

type handler struct {
	run RunFunc
	now func() time.Time
	// one run at a time, overlapping cron invocations wait
	mu sync.Mutex
}

// NewRouter exposes the cron endpoint. The response is the same whether
// the run found postings, found none or failed.
func NewRouter(run RunFunc, now func() time.Time) *gin.Engine {
	if now == nil {
		now = time.Now
	}
	h := &handler{run: run, now: now}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Jobinja notifier is running!",
			"status":  "healthy",
		})
	})
	r.GET("/api/cron", h.cron)
	r.POST("/api/cron", h.cron)
	return r
}

func (h *handler) cron(c *gin.Context) {
	invokedAt := h.now().UTC()

	h.mu.Lock()
	h.run(c.Request.Context())
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"datetime": invokedAt.Format(timestampLayout)})
}
