// internal/app/trigger.go
package app

import (
	"context"
	"crypto/subtle"
	"fmt"

	"permission_slip_reminder/internal/domain/reminder"

	"github.com/sirupsen/logrus"
)

var ErrTriggerNotAuthorized = fmt.Errorf("reminder trigger credential is missing or invalid")

// InvocationStatus tells the caller of the entry point how the invocation ended.
type InvocationStatus string

const (
	StatusCompleted    InvocationStatus = "completed"
	StatusUnauthorized InvocationStatus = "unauthorized"
	StatusSkipped      InvocationStatus = "skipped"
	StatusFailed       InvocationStatus = "failed"
)

// InvocationOutcome is the entry point's response. Result is always non-nil so callers can
// serialise counts regardless of status.
type InvocationOutcome struct {
	Status InvocationStatus
	Reason string
	Result *reminder.RunResult
	Err    error
}

// ReminderTrigger guards the reminder job: external invocations must present the shared
// secret, and nothing runs while the notification channel is unconfigured.
type ReminderTrigger struct {
	job               ReminderJob
	secret            string
	channelConfigured bool
	logger            *logrus.Entry
}

func NewReminderTrigger(job ReminderJob, secret string, channelConfigured bool, logger *logrus.Entry) *ReminderTrigger {
	return &ReminderTrigger{
		job:               job,
		secret:            secret,
		channelConfigured: channelConfigured,
		logger:            logger.WithField("component", "reminder_trigger"),
	}
}

// Authorize checks an external credential. An empty configured secret rejects everything.
func (t *ReminderTrigger) Authorize(credential string) bool {
	if t.secret == "" || credential == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(credential), []byte(t.secret)) == 1
}

// Invoke is the external entry point. Authorization happens before any data access.
func (t *ReminderTrigger) Invoke(ctx context.Context, credential string) InvocationOutcome {
	if !t.Authorize(credential) {
		t.logger.Warn("Rejected reminder invocation without a valid credential")
		return InvocationOutcome{
			Status: StatusUnauthorized,
			Reason: ErrTriggerNotAuthorized.Error(),
			Result: reminder.NewRunResult(""),
			Err:    ErrTriggerNotAuthorized,
		}
	}
	return t.Run(ctx)
}

// Run executes the job for trusted in-process callers (scheduler, operator commands).
func (t *ReminderTrigger) Run(ctx context.Context) InvocationOutcome {
	if !t.channelConfigured {
		t.logger.Info("Notification channel not configured, skipping reminder run")
		return InvocationOutcome{
			Status: StatusSkipped,
			Reason: "notification channel not configured",
			Result: reminder.NewRunResult(""),
		}
	}

	result, err := t.job.ProcessDueReminders(ctx)
	if err != nil {
		return InvocationOutcome{
			Status: StatusFailed,
			Reason: err.Error(),
			Result: reminder.NewRunResult(""),
			Err:    err,
		}
	}
	return InvocationOutcome{Status: StatusCompleted, Result: result}
}
