package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/sports_booking/internal/controller/formatting"
	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// MessageSender часть *bot.Bot для отправки сообщений
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Telegram присылает администраторам сообщения о бронях
type Telegram struct {
	sender   MessageSender
	adminIDs []int64
}

func NewTelegram(sender MessageSender, adminIDs []int64) *Telegram {
	return &Telegram{sender: sender, adminIDs: adminIDs}
}

// Notify отправляет событие каждому администратору
func (t *Telegram) Notify(ctx context.Context, event model.BookingEvent) error {
	if event.Booking == nil {
		return fmt.Errorf("notify %s: empty booking", event.Type)
	}

	text := formatting.FormatBookingEvent(event)

	var errs []error
	for _, chatID := range t.adminIDs {
		_, err := t.sender.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      text,
			ParseMode: models.ParseModeHTML,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("send to %d: %w", chatID, err))
		}
	}

	return errors.Join(errs...)
}
