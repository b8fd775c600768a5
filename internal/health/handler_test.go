// AngelaMos | 2026
// handler_test.go

package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/course-gate/internal/health"
	"github.com/carterperez-dev/templates/course-gate/internal/store"
)

type downChecker struct{}

func (downChecker) Ping(context.Context) error { return errors.New("down") }

func serve(h *health.Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     []health.Check
		prepare    func(*health.Handler)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "healthy store",
			checks:     []health.Check{{Name: "storage", Checker: store.NewMemory()}},
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
		{
			name:       "failing store",
			checks:     []health.Check{{Name: "storage", Checker: downChecker{}}},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "degraded",
		},
		{
			name:       "not ready",
			prepare:    func(h *health.Handler) { h.SetReady(false) },
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "not_ready",
		},
		{
			name:       "draining",
			prepare:    func(h *health.Handler) { h.SetShutdown(true) },
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "shutting_down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := health.NewHandler(tt.checks...)
			if tt.prepare != nil {
				tt.prepare(h)
			}

			rec := serve(h, "/readyz")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body health.StatusResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Status != tt.wantBody {
				t.Fatalf("status body = %q, want %q", body.Status, tt.wantBody)
			}
		})
	}
}

func TestLiveness(t *testing.T) {
	h := health.NewHandler()
	if rec := serve(h, "/livez"); rec.Code != http.StatusOK {
		t.Fatalf("livez = %d", rec.Code)
	}
	h.SetShutdown(true)
	if rec := serve(h, "/healthz"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("healthz while draining = %d", rec.Code)
	}
}
