// internal/infra/telegram/admin_handlers.go
package telegram

import (
	"context"
	"time"

	"permission_slip_reminder/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const (
	msgNotAuthorized = "Error: you are not allowed to run this command."
	msgHelp          = "Available commands:\n\n" +
		"/remind_now - run the reminder job immediately and show the summary.\n" +
		"/help - show this message."
	msgStart = "Permission slip reminder bot. Use /help to list commands."
)

// Runner is the trusted entry point of the reminder job.
type Runner interface {
	Run(ctx context.Context) app.InvocationOutcome
}

// AdminCommands holds the operator command logic, independent of the bot transport.
type AdminCommands struct {
	runner     Runner
	adminID    int64
	jobTimeout time.Duration
	logger     *logrus.Entry
}

func NewAdminCommands(runner Runner, adminID int64, jobTimeout time.Duration, logger *logrus.Entry) *AdminCommands {
	return &AdminCommands{
		runner:     runner,
		adminID:    adminID,
		jobTimeout: jobTimeout,
		logger:     logger.WithField("handler_group", "admin"),
	}
}

// RemindNow runs the job on behalf of senderID and returns the reply text.
func (a *AdminCommands) RemindNow(ctx context.Context, senderID int64) string {
	log := a.logger.WithFields(logrus.Fields{"command": "/remind_now", "sender_id": senderID})
	if senderID != a.adminID {
		log.Warn("Unauthorized access attempt")
		return msgNotAuthorized
	}

	log.Info("Manual reminder run requested")
	runCtx, cancel := context.WithTimeout(ctx, a.jobTimeout)
	defer cancel()

	return FormatSummary(a.runner.Run(runCtx))
}

// Help returns the help text for senderID.
func (a *AdminCommands) Help(senderID int64) string {
	if senderID != a.adminID {
		return msgNotAuthorized
	}
	return msgHelp
}

// RegisterAdminHandlers wires the admin commands into the bot.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, commands *AdminCommands) {
	b.Handle("/start", func(c telebot.Context) error {
		return c.Send(msgStart)
	})

	b.Handle("/help", func(c telebot.Context) error {
		return c.Send(commands.Help(c.Sender().ID))
	})

	b.Handle("/remind_now", func(c telebot.Context) error {
		return c.Send(commands.RemindNow(ctx, c.Sender().ID))
	})
}
