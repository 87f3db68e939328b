package httpapi

import (
	"net/http"

	"permission_slip_reminder/internal/infra/ratelimit"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the health check and the rate-limited reminder trigger. Set trustProxy only
// when a reverse proxy overwrites X-Forwarded-For / X-Real-IP; otherwise callers could pick their
// own rate limit key.
func NewRouter(h *ReminderHandler, limiter *ratelimit.Limiter, trustProxy bool) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if trustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/cron", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware(ratelimit.ByRemoteAddr))
		}
		r.Get("/reminders", h.Trigger)
		r.Post("/reminders", h.Trigger)
	})

	return r
}
