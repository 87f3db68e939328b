// internal/infra/telegram/summary.go
package telegram

import (
	"fmt"
	"strings"

	"permission_slip_reminder/internal/app"
	domainTelegram "permission_slip_reminder/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// FormatSummary renders an invocation outcome for operators.
func FormatSummary(outcome app.InvocationOutcome) string {
	var b strings.Builder

	switch outcome.Status {
	case app.StatusSkipped, app.StatusUnauthorized:
		fmt.Fprintf(&b, "Reminder run %s: %s", outcome.Status, outcome.Reason)
		return b.String()
	case app.StatusFailed:
		fmt.Fprintf(&b, "Reminder run failed: %s", outcome.Reason)
		return b.String()
	}

	result := outcome.Result
	fmt.Fprintf(&b, "Reminder run %s\n", result.RunID)
	fmt.Fprintf(&b, "Sent: %d, errors: %d\n", result.TotalSent, result.TotalErrors)
	if len(result.PerForm) == 0 {
		b.WriteString("No reminders were due.")
		return b.String()
	}
	for _, f := range result.PerForm {
		fmt.Fprintf(&b, "- form %s (%s before deadline): sent %d, errors %d\n", f.FormID, f.MatchedInterval, f.Sent, f.Errors)
	}
	return strings.TrimRight(b.String(), "\n")
}

// SummaryReporter posts run outcomes to the admin chat. Quiet runs are not reported.
type SummaryReporter struct {
	client  domainTelegram.Client
	adminID int64
	logger  *logrus.Entry
}

func NewSummaryReporter(client domainTelegram.Client, adminID int64, logger *logrus.Entry) *SummaryReporter {
	return &SummaryReporter{
		client:  client,
		adminID: adminID,
		logger:  logger.WithField("component", "telegram_reporter"),
	}
}

func (r *SummaryReporter) Report(outcome app.InvocationOutcome) {
	switch outcome.Status {
	case app.StatusCompleted:
		if outcome.Result == nil || !outcome.Result.DidWork() {
			return
		}
	case app.StatusFailed:
	default:
		return
	}

	if err := r.client.SendMessage(r.adminID, FormatSummary(outcome), nil); err != nil {
		r.logger.WithError(err).WithField("admin_id", r.adminID).Error("Failed to send run summary to admin")
	}
}
