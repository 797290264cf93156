package notify

import (
	"gopkg.in/telebot.v3"

	domainNotify "github.com/asysc2020/relationship-manager-project/internal/domain/notify"
)

// TelebotNotifier delivers reminders over Telegram using gopkg.in/telebot.v3.
// The bot is used for sending only and is never started for updates.
type TelebotNotifier struct {
	bot *telebot.Bot
}

func NewTelebotNotifier(b *telebot.Bot) *TelebotNotifier {
	return &TelebotNotifier{bot: b}
}

// Send delivers a text message to the given chat. A zero chat ID means the
// user never linked a chat, reported as notify.ErrNoRecipient.
func (tn *TelebotNotifier) Send(recipientChatID int64, text string) error {
	if recipientChatID == 0 {
		return domainNotify.ErrNoRecipient
	}

	recipient := &telebot.User{ID: recipientChatID} // Reminders go to a direct user chat
	_, err := tn.bot.Send(recipient, text)
	return err
}
