package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"permission_slip_reminder/internal/app"
	"permission_slip_reminder/internal/domain/reminder"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gopkg.in/telebot.v3"
)

type sentMessage struct {
	chatID int64
	text   string
}

type fakeClient struct {
	sent []sentMessage
	err  error
}

func (f *fakeClient) SendMessage(chatID int64, text string, _ *telebot.SendOptions) error {
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return f.err
}

type stubRunner struct {
	outcome app.InvocationOutcome
	calls   int
}

func (r *stubRunner) Run(context.Context) app.InvocationOutcome {
	r.calls++
	return r.outcome
}

func newTestEntry() *logrus.Entry {
	logger, _ := test.NewNullLogger()
	return logrus.NewEntry(logger)
}

func completedOutcome() app.InvocationOutcome {
	result := reminder.NewRunResult("run-1")
	result.Record("form-1", reminder.Interval{Value: 3, Unit: reminder.UnitDays}, 4, 1)
	return app.InvocationOutcome{Status: app.StatusCompleted, Result: result}
}

func TestFormatSummary(t *testing.T) {
	tests := []struct {
		name    string
		outcome app.InvocationOutcome
		want    []string
	}{
		{
			name:    "completed with work",
			outcome: completedOutcome(),
			want:    []string{"run-1", "Sent: 4, errors: 1", "form form-1 (3 days before deadline): sent 4, errors 1"},
		},
		{
			name:    "completed without work",
			outcome: app.InvocationOutcome{Status: app.StatusCompleted, Result: reminder.NewRunResult("run-2")},
			want:    []string{"Sent: 0, errors: 0", "No reminders were due."},
		},
		{
			name:    "skipped",
			outcome: app.InvocationOutcome{Status: app.StatusSkipped, Reason: "notification channel not configured"},
			want:    []string{"skipped", "notification channel not configured"},
		},
		{
			name:    "failed",
			outcome: app.InvocationOutcome{Status: app.StatusFailed, Reason: "db down"},
			want:    []string{"failed", "db down"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatSummary(tt.outcome)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("summary %q missing %q", got, w)
				}
			}
		})
	}
}

func TestSummaryReporter_Report(t *testing.T) {
	tests := []struct {
		name     string
		outcome  app.InvocationOutcome
		wantSent bool
	}{
		{name: "run with sends is reported", outcome: completedOutcome(), wantSent: true},
		{name: "quiet run is not reported", outcome: app.InvocationOutcome{Status: app.StatusCompleted, Result: reminder.NewRunResult("r")}},
		{name: "failure is reported", outcome: app.InvocationOutcome{Status: app.StatusFailed, Reason: "db down"}, wantSent: true},
		{name: "skip is not reported", outcome: app.InvocationOutcome{Status: app.StatusSkipped}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{}
			NewSummaryReporter(client, 99, newTestEntry()).Report(tt.outcome)

			if tt.wantSent != (len(client.sent) == 1) {
				t.Fatalf("sent %d messages, wantSent=%v", len(client.sent), tt.wantSent)
			}
			if tt.wantSent && client.sent[0].chatID != 99 {
				t.Errorf("chat id = %d, want 99", client.sent[0].chatID)
			}
		})
	}
}

func TestSummaryReporter_SendErrorIsAbsorbed(t *testing.T) {
	client := &fakeClient{err: errors.New("telegram down")}
	NewSummaryReporter(client, 99, newTestEntry()).Report(completedOutcome())

	if len(client.sent) != 1 {
		t.Errorf("sent %d messages, want 1 attempt", len(client.sent))
	}
}

func TestAdminCommands_RemindNow(t *testing.T) {
	runner := &stubRunner{outcome: completedOutcome()}
	commands := NewAdminCommands(runner, 7, time.Minute, newTestEntry())

	if got := commands.RemindNow(context.Background(), 8); got != msgNotAuthorized {
		t.Errorf("non-admin reply = %q, want refusal", got)
	}
	if runner.calls != 0 {
		t.Fatalf("runner called %d times for non-admin", runner.calls)
	}

	got := commands.RemindNow(context.Background(), 7)
	if runner.calls != 1 {
		t.Fatalf("runner called %d times, want 1", runner.calls)
	}
	if !strings.Contains(got, "Sent: 4, errors: 1") {
		t.Errorf("admin reply = %q, want summary", got)
	}
}

func TestAdminCommands_Help(t *testing.T) {
	commands := NewAdminCommands(&stubRunner{}, 7, time.Minute, newTestEntry())

	if got := commands.Help(7); !strings.Contains(got, "/remind_now") {
		t.Errorf("admin help = %q", got)
	}
	if got := commands.Help(8); got != msgNotAuthorized {
		t.Errorf("non-admin help = %q, want refusal", got)
	}
}
