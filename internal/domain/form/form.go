// internal/domain/form/form.go
package form

import "time"

// SubmissionStatus is the state of one parent's response to a form.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionSigned   SubmissionStatus = "signed"
	SubmissionDeclined SubmissionStatus = "declined"
)

// Status is the lifecycle state of a permission slip. Only sent forms are reminded about;
// drafts and forms still waiting on a reviewer never reach parents.
type Status string

const (
	StatusDraft         Status = "draft"
	StatusPendingReview Status = "pending_review"
	StatusActive        Status = "active"
	StatusClosed        Status = "closed"
)

// Window is the slice of a form the reminder job needs: its deadline, whether reminders are on,
// and the stored (unparsed) reminder schedule.
// Corresponds to a row of the 'forms' table.
type Window struct {
	ID               string
	Title            string
	SchoolName       string
	Deadline         time.Time
	RemindersEnabled bool
	RawSchedule      []byte // reminder_schedule jsonb, may be NULL
}

// InLookahead reports whether the form should be considered for a run at now.
func (w *Window) InLookahead(now time.Time, lookahead time.Duration) bool {
	if !w.RemindersEnabled {
		return false
	}
	return w.Deadline.After(now) && !w.Deadline.After(now.Add(lookahead))
}

// PendingRecipient is a parent/student pairing that has neither signed nor declined.
// Recomputed on every run, never cached.
type PendingRecipient struct {
	SubmissionID string
	FormID       string
	ParentEmail  string
	ParentName   string
	StudentName  string
}
