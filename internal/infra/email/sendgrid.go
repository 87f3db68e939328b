package email

import (
	"context"
	"fmt"
	"net/http"

	"permission_slip_reminder/internal/domain/notify"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	DefaultHost = "https://api.sendgrid.com"
	endpoint    = "/v3/mail/send"
)

var ErrMissingRecipient = fmt.Errorf("reminder has no recipient email")

// SendGridSender delivers reminder emails through the SendGrid v3 mail API.
type SendGridSender struct {
	key     string
	host    string
	from    *sgmail.Email
	baseURL string
}

var _ notify.Sender = (*SendGridSender)(nil)

func NewSendGridSender(key, host, fromName, fromEmail, baseURL string) *SendGridSender {
	if host == "" {
		host = DefaultHost
	}
	return &SendGridSender{
		key:     key,
		host:    host,
		from:    sgmail.NewEmail(fromName, fromEmail),
		baseURL: baseURL,
	}
}

func (s *SendGridSender) SendReminder(ctx context.Context, r *notify.Reminder) error {
	if r == nil || r.Recipient == nil || r.Recipient.ParentEmail == "" {
		return ErrMissingRecipient
	}

	rendered, err := renderReminder(r, s.baseURL)
	if err != nil {
		return err
	}

	to := sgmail.NewEmail(r.Recipient.ParentName, r.Recipient.ParentEmail)
	m := sgmail.NewSingleEmail(s.from, rendered.Subject, to, rendered.Text, rendered.HTML)
	m.SetHeader("X-Entity-Ref-ID", r.Recipient.SubmissionID)

	req := sendgrid.GetRequest(s.key, endpoint, s.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid rejected message with status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
