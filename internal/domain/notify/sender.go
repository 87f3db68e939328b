// internal/domain/notify/sender.go
package notify

//go:generate mockgen -source=sender.go -destination=sender_mock.go -package=notify

import (
	"context"

	"permission_slip_reminder/internal/domain/form"
	"permission_slip_reminder/internal/domain/reminder"
)

// Reminder is everything a channel needs to nudge one parent about one form.
type Reminder struct {
	Form           *form.Window
	Recipient      *form.PendingRecipient
	Interval       reminder.Interval
	HoursRemaining float64
}

// Sender delivers reminders over an external channel. Errors are opaque to callers; they are
// counted, never interpreted.
type Sender interface {
	SendReminder(ctx context.Context, r *Reminder) error
}
