package keyboard

import (
	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// Действия кнопок под карточкой брони
const (
	ActionCancel   = "cancel"
	ActionConfirm  = "confirm"
	ActionComplete = "complete"
	ActionPaid     = "paid"
	ActionRefund   = "refund"
)

// Builder упрощает создание inline клавиатур
type Builder struct {
	rows [][]models.InlineKeyboardButton
}

// NewBuilder создаёт новый builder клавиатуры
func NewBuilder() *Builder {
	return &Builder{
		rows: make([][]models.InlineKeyboardButton, 0),
	}
}

// Row добавляет новый ряд кнопок
func (b *Builder) Row(buttons ...models.InlineKeyboardButton) *Builder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

// Button создаёт кнопку
func Button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// Empty сообщает что кнопок нет
func (b *Builder) Empty() bool {
	return len(b.rows) == 0
}

// Build создаёт финальную клавиатуру
func (b *Builder) Build() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: b.rows,
	}
}

// CallbackData кодирует действие над бронью: "confirm:<uuid>"
func CallbackData(action string, id uuid.UUID) string {
	return action + ":" + id.String()
}

// BookingActions кнопки, доступные пользователю для брони в её текущем состоянии.
// Возвращает nil если действий нет.
func BookingActions(booking *model.Booking, actor model.Actor) *models.InlineKeyboardMarkup {
	b := NewBuilder()

	var lifecycle []models.InlineKeyboardButton
	if booking.Status.CanTransitionTo(model.BookingStatusCancelled) {
		lifecycle = append(lifecycle, Button("❌ Отменить", CallbackData(ActionCancel, booking.ID)))
	}
	if actor.IsAdmin() {
		if booking.Status.CanTransitionTo(model.BookingStatusConfirmed) {
			lifecycle = append(lifecycle, Button("✅ Подтвердить", CallbackData(ActionConfirm, booking.ID)))
		}
		if booking.Status.CanTransitionTo(model.BookingStatusCompleted) {
			lifecycle = append(lifecycle, Button("🏁 Завершить", CallbackData(ActionComplete, booking.ID)))
		}
	}
	b.Row(lifecycle...)

	if actor.IsAdmin() {
		switch booking.PaymentStatus {
		case model.PaymentStatusPending:
			b.Row(Button("💵 Оплачено", CallbackData(ActionPaid, booking.ID)))
		case model.PaymentStatusPaid:
			b.Row(Button("↩️ Возврат", CallbackData(ActionRefund, booking.ID)))
		}
	}

	if b.Empty() {
		return nil
	}
	return b.Build()
}
