// internal/domain/form/repository.go
package form

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=form

import (
	"context"
	"time"
)

// Repository is the read-only view of forms and submissions used by the reminder job.
type Repository interface {
	// ListFormsDueForReminder returns dispatchable forms with reminders enabled whose deadline
	// falls in (now, now+lookahead].
	ListFormsDueForReminder(ctx context.Context, now time.Time, lookahead time.Duration) ([]*Window, error)
	// ListPendingRecipients returns every submission of the form that is still pending.
	ListPendingRecipients(ctx context.Context, formID string) ([]*PendingRecipient, error)
}
