package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"permission_slip_reminder/internal/app"
	"permission_slip_reminder/internal/domain/reminder"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Invoker is the authenticated entry point of the reminder job.
type Invoker interface {
	Invoke(ctx context.Context, credential string) app.InvocationOutcome
}

type ReminderHandler struct {
	invoker Invoker
	logger  *logrus.Entry
}

func NewReminderHandler(invoker Invoker, logger *logrus.Entry) *ReminderHandler {
	return &ReminderHandler{
		invoker: invoker,
		logger:  logger.WithField("component", "http_reminders"),
	}
}

type skippedResponse struct {
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason"`
	*reminder.RunResult
}

// Trigger runs the reminder job for a caller presenting the shared secret as a bearer token.
func (h *ReminderHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	log := h.logger.WithField("request_id", chimw.GetReqID(r.Context()))

	outcome := h.invoker.Invoke(r.Context(), bearerToken(r))
	switch outcome.Status {
	case app.StatusUnauthorized:
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	case app.StatusSkipped:
		writeJSON(w, http.StatusOK, skippedResponse{Skipped: true, Reason: outcome.Reason, RunResult: outcome.Result})
	case app.StatusFailed:
		log.WithError(outcome.Err).Error("Reminder run failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "reminder run failed"})
	default:
		log.WithFields(logrus.Fields{
			"run_id":       outcome.Result.RunID,
			"total_sent":   outcome.Result.TotalSent,
			"total_errors": outcome.Result.TotalErrors,
		}).Info("Reminder run completed")
		writeJSON(w, http.StatusOK, outcome.Result)
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
