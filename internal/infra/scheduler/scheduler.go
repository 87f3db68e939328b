package scheduler

import (
	"context"
	"fmt"
	"time"

	"permission_slip_reminder/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Runner is the trusted in-process entry point of the reminder job.
type Runner interface {
	Run(ctx context.Context) app.InvocationOutcome
}

// RunReporter receives the outcome of every scheduled run. Optional.
type RunReporter interface {
	Report(outcome app.InvocationOutcome)
}

// Cleaner is a store with a manual expiry trigger, e.g. the in-memory rate limit store.
type Cleaner interface {
	Cleanup() int
}

type ReminderScheduler struct {
	cronEngine       *cron.Cron
	runner           Runner
	reporter         RunReporter
	cleaner          Cleaner
	logger           *logrus.Entry
	cronSpecReminder string
	cronSpecCleanup  string
	jobTimeout       time.Duration
}

func NewReminderScheduler(
	runner Runner,
	logger *logrus.Entry,
	cronSpecReminder string, // e.g., "0 */2 * * *" (every 2 hours)
	jobTimeout time.Duration,
) *ReminderScheduler {
	return &ReminderScheduler{
		// At most one reminder run at a time.
		cronEngine: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		runner:           runner,
		logger:           logger.WithField("component", "scheduler"),
		cronSpecReminder: cronSpecReminder,
		jobTimeout:       jobTimeout,
	}
}

// WithReporter sets where run outcomes are reported.
func (s *ReminderScheduler) WithReporter(r RunReporter) *ReminderScheduler {
	s.reporter = r
	return s
}

// WithCleanup registers a periodic Cleanup call on spec.
func (s *ReminderScheduler) WithCleanup(c Cleaner, spec string) *ReminderScheduler {
	s.cleaner = c
	s.cronSpecCleanup = spec
	return s
}

func (s *ReminderScheduler) Start() error {
	s.logger.Info("Starting reminder scheduler...")

	if _, err := s.cronEngine.AddFunc(s.cronSpecReminder, s.RunOnce); err != nil {
		return fmt.Errorf("could not add reminder cron job %q: %w", s.cronSpecReminder, err)
	}

	if s.cleaner != nil && s.cronSpecCleanup != "" {
		_, err := s.cronEngine.AddFunc(s.cronSpecCleanup, func() {
			removed := s.cleaner.Cleanup()
			s.logger.WithField("removed_keys", removed).Debug("Rate limit store cleaned up")
		})
		if err != nil {
			return fmt.Errorf("could not add cleanup cron job %q: %w", s.cronSpecCleanup, err)
		}
	}

	s.cronEngine.Start()
	s.logger.WithField("spec", s.cronSpecReminder).Info("Reminder scheduler started.")
	return nil
}

// RunOnce executes one reminder run bounded by the job timeout.
func (s *ReminderScheduler) RunOnce() {
	s.logger.Info("Cron job triggered for reminder processing.")
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	outcome := s.runner.Run(ctx)
	log := s.logger.WithField("status", outcome.Status)
	switch outcome.Status {
	case app.StatusFailed:
		log.WithError(outcome.Err).Error("Reminder run failed")
	case app.StatusCompleted:
		log.WithFields(logrus.Fields{
			"run_id":       outcome.Result.RunID,
			"total_sent":   outcome.Result.TotalSent,
			"total_errors": outcome.Result.TotalErrors,
		}).Info("Reminder run completed")
	default:
		log.WithField("reason", outcome.Reason).Info("Reminder run did not execute")
	}

	if s.reporter != nil {
		s.reporter.Report(outcome)
	}
}

func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Reminder scheduler gracefully stopped.")
}
