package telegram

import "gopkg.in/telebot.v3"

// Client sends messages to operators via a Telegram bot, decoupled from the bot library's
// polling and handler machinery.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}
