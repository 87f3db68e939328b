// internal/app/reminder_service.go
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"permission_slip_reminder/internal/app/dispatch"
	"permission_slip_reminder/internal/domain/form"
	"permission_slip_reminder/internal/domain/notify"
	"permission_slip_reminder/internal/domain/reminder"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultLookahead bounds the form query. It only limits the query surface; any window wider
// than the largest configured interval gives the same result.
const DefaultLookahead = 8 * 24 * time.Hour

// ReminderJob is the unit of work run by every trigger.
type ReminderJob interface {
	ProcessDueReminders(ctx context.Context) (*reminder.RunResult, error)
}

type ReminderServiceConfig struct {
	Tolerance  time.Duration
	Lookahead  time.Duration
	BatchSize  int
	BatchDelay time.Duration
}

// ReminderService runs one reminder pass: it finds forms whose schedule fires now, resolves
// their pending recipients and sends the reminders in paced batches.
type ReminderService struct {
	forms     form.Repository
	sender    notify.Sender
	logger    *logrus.Entry
	tolerance time.Duration
	lookahead time.Duration
	batchSize int
	delay     time.Duration

	now   func() time.Time
	sleep dispatch.SleepFunc
	newID func() string
}

func NewReminderService(
	forms form.Repository,
	sender notify.Sender,
	logger *logrus.Entry,
	cfg ReminderServiceConfig,
) *ReminderService {
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = reminder.DefaultTolerance
	}
	if cfg.Lookahead <= 0 {
		cfg.Lookahead = DefaultLookahead
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = dispatch.DefaultBatchSize
	}
	if cfg.BatchDelay < 0 {
		cfg.BatchDelay = dispatch.DefaultDelay
	}
	return &ReminderService{
		forms:     forms,
		sender:    sender,
		logger:    logger.WithField("component", "reminder_service"),
		tolerance: cfg.Tolerance,
		lookahead: cfg.Lookahead,
		batchSize: cfg.BatchSize,
		delay:     cfg.BatchDelay,
		now:       time.Now,
		sleep:     dispatch.SleepContext,
		newID:     func() string { return uuid.NewString() },
	}
}

// ProcessDueReminders runs a complete reminder pass from cold state. Only a failure to list
// candidate forms is returned; everything else is absorbed into the result counts and logs.
func (s *ReminderService) ProcessDueReminders(ctx context.Context) (*reminder.RunResult, error) {
	now := s.now()
	result := reminder.NewRunResult(s.newID())
	log := s.logger.WithField("run_id", result.RunID)
	log.WithField("now", now.Format(time.RFC3339)).Info("Starting reminder run")

	forms, err := s.candidateForms(ctx, now)
	if err != nil {
		log.WithError(err).Error("Failed to list forms due for reminders")
		return nil, fmt.Errorf("failed to list forms due for reminders: %w", err)
	}
	log.WithField("forms", len(forms)).Debug("Candidate forms loaded")

	for _, f := range forms {
		formLog := log.WithField("form_id", f.ID)

		hoursRemaining := reminder.HoursUntil(f.Deadline, now)
		schedule := reminder.ParseSchedule(f.RawSchedule)
		matched, ok := reminder.Match(hoursRemaining, schedule, s.tolerance)
		if !ok {
			formLog.WithField("hours_remaining", hoursRemaining).Debug("No reminder interval due")
			continue
		}
		formLog = formLog.WithField("interval", matched.String())

		recipients, err := s.resolveRecipients(ctx, f.ID, formLog)
		if err != nil {
			formLog.WithError(err).Error("Failed to resolve pending recipients, skipping form")
			continue
		}
		if len(recipients) == 0 {
			formLog.Info("Reminder due but no pending recipients")
			continue
		}

		outcome := s.notify(ctx, f, matched, hoursRemaining, recipients, formLog)
		result.Record(f.ID, matched, outcome.Sent, outcome.Errors)
		formLog.WithFields(logrus.Fields{
			"sent":    outcome.Sent,
			"errors":  outcome.Errors,
			"batches": outcome.Batches,
		}).Info("Reminders dispatched for form")
	}

	log.WithFields(logrus.Fields{
		"total_sent":   result.TotalSent,
		"total_errors": result.TotalErrors,
		"forms":        len(result.PerForm),
	}).Info("Reminder run finished")
	return result, nil
}

// candidateForms loads forms from the store and keeps only those with reminders enabled and a
// deadline inside the lookahead window, whatever the store returned.
func (s *ReminderService) candidateForms(ctx context.Context, now time.Time) ([]*form.Window, error) {
	forms, err := s.forms.ListFormsDueForReminder(ctx, now, s.lookahead)
	if err != nil {
		return nil, err
	}
	candidates := make([]*form.Window, 0, len(forms))
	for _, f := range forms {
		if f == nil || !f.InLookahead(now, s.lookahead) {
			continue
		}
		candidates = append(candidates, f)
	}
	return candidates, nil
}

func (s *ReminderService) resolveRecipients(ctx context.Context, formID string, log *logrus.Entry) ([]*form.PendingRecipient, error) {
	pending, err := s.forms.ListPendingRecipients(ctx, formID)
	if err != nil {
		return nil, err
	}
	recipients := make([]*form.PendingRecipient, 0, len(pending))
	for _, r := range pending {
		if r == nil {
			continue
		}
		if strings.TrimSpace(r.ParentEmail) == "" {
			log.WithField("submission_id", r.SubmissionID).Warn("Pending recipient has no parent email, skipping")
			continue
		}
		recipients = append(recipients, r)
	}
	return recipients, nil
}

func (s *ReminderService) notify(
	ctx context.Context,
	f *form.Window,
	matched reminder.Interval,
	hoursRemaining float64,
	recipients []*form.PendingRecipient,
	log *logrus.Entry,
) dispatch.Outcome {
	d := dispatch.NewBatchedDispatcher[*form.PendingRecipient](s.batchSize, s.delay)
	d.Sleep = s.sleep
	d.OnError = func(r *form.PendingRecipient, err error) {
		log.WithFields(logrus.Fields{
			"submission_id": r.SubmissionID,
			"parent_email":  r.ParentEmail,
		}).WithError(err).Error("Failed to send reminder")
	}

	return d.Dispatch(ctx, recipients, func(ctx context.Context, r *form.PendingRecipient) error {
		return s.sender.SendReminder(ctx, &notify.Reminder{
			Form:           f,
			Recipient:      r,
			Interval:       matched,
			HoursRemaining: hoursRemaining,
		})
	})
}
