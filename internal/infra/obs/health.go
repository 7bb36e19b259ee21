package obs

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandlers answers liveness and readiness probes. Ready, when set,
// checks the storage backend; a nil Ready means always ready.
type HealthHandlers struct {
	Ready func() error
}

// Livez reports process liveness only; it never touches dependencies.
func (h HealthHandlers) Livez(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz runs the readiness probe and reports 503 with the failure cause.
func (h HealthHandlers) Readyz(c *gin.Context) {
	if h.Ready != nil {
		if err := h.Ready(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
