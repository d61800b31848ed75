// Package notify carries best-effort messages out of the system. Delivery
// failure is logged and swallowed; it must never fail the operation that
// produced the message.
package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender delivers one message to one chat. Implementations must be safe
// for concurrent use.
type Sender interface {
	Send(chatID int64, text string) error
}

// TelegramSender delivers notifications through the Telegram Bot API.
type TelegramSender struct {
	api *tgbotapi.BotAPI
}

func NewTelegramSender(token string) (*TelegramSender, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	log.Printf("[info] notifier authorized on account %s", api.Self.UserName)
	return &TelegramSender{api: api}, nil
}

func (s *TelegramSender) Send(chatID int64, text string) error {
	if chatID == 0 {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// NopSender drops every message. Used when no transport is configured.
type NopSender struct{}

func (NopSender) Send(int64, string) error { return nil }
