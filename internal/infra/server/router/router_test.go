package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/integration/entrypoint/controller"
	"github.com/fitness-tracker/companion/internal/integration/entrypoint/middleware"
)

func TestRouter_Setup(t *testing.T) {
	clock := adapter.ClockFunc(func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) })
	r := NewRouter(
		controller.NewHealthController("memory", nil),
		nil,
		nil,
		nil,
		middleware.NewRateLimiter(clock),
		middleware.NewAuthMiddleware("s3cret"),
	)
	engine := r.Setup("test")

	t.Run("health is public", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("metrics are exposed", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "go_goroutines") {
			t.Error("expected default collectors in exposition")
		}
	})

	if r.Engine() != engine {
		t.Error("expected Engine to return the configured engine")
	}
}
