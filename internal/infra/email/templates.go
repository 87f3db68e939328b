package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltmpl "html/template"
	texttmpl "text/template"

	"permission_slip_reminder/internal/domain/notify"
)

//go:embed templates/*
var templateFS embed.FS

var (
	textTemplate = texttmpl.Must(texttmpl.ParseFS(templateFS, "templates/reminder.txt"))
	htmlTemplate = htmltmpl.Must(htmltmpl.ParseFS(templateFS, "templates/reminder.gohtml"))
)

const deadlineLayout = "Mon, 02 Jan 2006 15:04 MST"

type reminderData struct {
	ParentName  string
	StudentName string
	FormTitle   string
	SchoolName  string
	DueIn       string
	Deadline    string
	Link        string
}

type renderedReminder struct {
	Subject string
	Text    string
	HTML    string
}

func newReminderData(r *notify.Reminder, baseURL string) reminderData {
	parentName := r.Recipient.ParentName
	if parentName == "" {
		parentName = "parent or guardian"
	}
	studentName := r.Recipient.StudentName
	if studentName == "" {
		studentName = "your child"
	}
	return reminderData{
		ParentName:  parentName,
		StudentName: studentName,
		FormTitle:   r.Form.Title,
		SchoolName:  r.Form.SchoolName,
		DueIn:       r.Interval.String(),
		Deadline:    r.Form.Deadline.Format(deadlineLayout),
		Link:        fmt.Sprintf("%s/forms/%s/respond?submission=%s", baseURL, r.Form.ID, r.Recipient.SubmissionID),
	}
}

func renderReminder(r *notify.Reminder, baseURL string) (*renderedReminder, error) {
	data := newReminderData(r, baseURL)

	var text bytes.Buffer
	if err := textTemplate.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("rendering text body: %w", err)
	}
	var html bytes.Buffer
	if err := htmlTemplate.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("rendering html body: %w", err)
	}

	return &renderedReminder{
		Subject: fmt.Sprintf("Reminder: %q is due in %s", data.FormTitle, data.DueIn),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
