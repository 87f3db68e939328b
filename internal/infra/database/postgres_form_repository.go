// internal/infra/database/postgres_form_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"permission_slip_reminder/internal/domain/form"

	"github.com/lib/pq" // For pq.Array
)

// Forms that have passed review and been sent to parents. Drafts and forms waiting on a
// reviewer are never reminded about.
var dispatchableFormStatuses = []string{string(form.StatusActive)}

type PostgresFormRepository struct {
	db *sql.DB
}

func NewPostgresFormRepository(db *sql.DB) *PostgresFormRepository {
	return &PostgresFormRepository{db: db}
}

var _ form.Repository = (*PostgresFormRepository)(nil)

func (r *PostgresFormRepository) ListFormsDueForReminder(ctx context.Context, now time.Time, lookahead time.Duration) ([]*form.Window, error) {
	query := `SELECT f.id, f.title, COALESCE(s.name, ''), f.deadline, f.reminders_enabled, f.reminder_schedule
               FROM forms f
               LEFT JOIN schools s ON s.id = f.school_id
               WHERE f.reminders_enabled = TRUE
                 AND f.status = ANY($1::varchar[])
                 AND f.deadline > $2
                 AND f.deadline <= $3
               ORDER BY f.deadline ASC, f.id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(dispatchableFormStatuses), now, now.Add(lookahead))
	if err != nil {
		return nil, fmt.Errorf("error querying forms due for reminder: %w", err)
	}
	defer rows.Close()

	forms := make([]*form.Window, 0)
	for rows.Next() {
		w := &form.Window{}
		var schedule []byte
		if err := rows.Scan(&w.ID, &w.Title, &w.SchoolName, &w.Deadline, &w.RemindersEnabled, &schedule); err != nil {
			return nil, fmt.Errorf("error scanning form row: %w", err)
		}
		w.RawSchedule = schedule
		forms = append(forms, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating form rows: %w", err)
	}
	return forms, nil
}

func (r *PostgresFormRepository) ListPendingRecipients(ctx context.Context, formID string) ([]*form.PendingRecipient, error) {
	query := `SELECT sub.id, sub.form_id, p.email, p.name, st.name
               FROM form_submissions sub
               JOIN parents p ON p.id = sub.parent_id
               JOIN students st ON st.id = sub.student_id
               WHERE sub.form_id = $1 AND sub.status = $2
               ORDER BY sub.created_at, sub.id`

	rows, err := r.db.QueryContext(ctx, query, formID, form.SubmissionPending)
	if err != nil {
		return nil, fmt.Errorf("error querying pending recipients for form %s: %w", formID, err)
	}
	defer rows.Close()

	recipients := make([]*form.PendingRecipient, 0)
	for rows.Next() {
		rcpt := &form.PendingRecipient{}
		var email, parentName, studentName sql.NullString
		if err := rows.Scan(&rcpt.SubmissionID, &rcpt.FormID, &email, &parentName, &studentName); err != nil {
			return nil, fmt.Errorf("error scanning pending recipient: %w", err)
		}
		rcpt.ParentEmail = email.String
		rcpt.ParentName = parentName.String
		rcpt.StudentName = studentName.String
		recipients = append(recipients, rcpt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending recipients: %w", err)
	}
	return recipients, nil
}
