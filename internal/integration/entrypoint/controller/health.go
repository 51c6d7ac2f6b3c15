package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// LedgerCheck reports whether the ledger backend answers. Nil means the
// backend lives in process and is always reachable.
type LedgerCheck func() bool

// HealthController reports liveness and ledger reachability.
type HealthController struct {
	backend string
	check   LedgerCheck
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status        string `json:"status"`
	LedgerBackend string `json:"ledger_backend"`
	Ledger        string `json:"ledger"`
	Timestamp     string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
func NewHealthController(backend string, check LedgerCheck) *HealthController {
	return &HealthController{backend: backend, check: check}
}

// Check handles GET /health. An unreachable ledger degrades the companion
// to 503: effects would not fire while it is down.
func (h *HealthController) Check(c *gin.Context) {
	status, ledger, code := "ok", "connected", http.StatusOK
	if h.check != nil && !h.check() {
		status, ledger, code = "degraded", "disconnected", http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:        status,
		LedgerBackend: h.backend,
		Ledger:        ledger,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}
