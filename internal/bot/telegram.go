package bot

import (
	"fmt"
	"log"

	tele "gopkg.in/telebot.v3"
)

type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

var newTelegramBot = func(token string) (sender, error) {
	return tele.NewBot(tele.Settings{Token: token})
}

// Notifier sends operator alerts over Telegram. A nil Notifier is valid and
// drops every alert, so callers never have to guard their calls.
type Notifier struct {
	bot    sender
	chatID int64
}

func NewNotifier(token string, chatID int64) *Notifier {
	if token == "" || chatID == 0 {
		log.Println("TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not set, skipping Telegram alerts")
		return nil
	}
	b, err := newTelegramBot(token)
	if err != nil {
		log.Printf("failed to create Telegram bot, alerts disabled: %v", err)
		return nil
	}
	log.Println("Telegram alerts enabled")
	return &Notifier{bot: b, chatID: chatID}
}

func (n *Notifier) NotifyFailure(stage string, err error) {
	if n == nil {
		return
	}
	msg := fmt.Sprintf("⚠️ Cycle %s failure: %v", stage, err)
	if _, sendErr := n.bot.Send(tele.ChatID(n.chatID), msg); sendErr != nil {
		log.Printf("failed to send Telegram alert: %v", sendErr)
	}
}
