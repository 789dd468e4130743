package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/sports_booking/internal/controller/formatting"
	"github.com/Freeeeeet/sports_booking/internal/controller/keyboard"
	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleCallbackQuery точка входа для нажатий на inline кнопки
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.DispatchCallback(ctx, b, update)
}

// DispatchCallback выполняет действие над бронью из кнопки под карточкой
func (h *Handlers) DispatchCallback(ctx context.Context, b Sender, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	h.logger.Info("Routing callback",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	action, id, err := parseCallbackData(callback.Data)
	if err != nil {
		h.answerCallback(ctx, b, callback.ID, "❌ Неверный формат", true)
		return
	}

	var chatID int64
	if msg := callback.Message.Message; msg != nil {
		chatID = msg.Chat.ID
	}
	if chatID == 0 {
		chatID = callback.From.ID
	}

	_, actor, ok := h.requireUser(ctx, b, chatID, callback.From.ID)
	if !ok {
		h.answerCallback(ctx, b, callback.ID, "", false)
		return
	}

	run, successText := h.callbackAction(action)
	if run == nil {
		h.answerCallback(ctx, b, callback.ID, "❌ Неизвестное действие", true)
		return
	}

	booking, err := withRetry(ctx, h, "callback "+action, func(ctx context.Context) (*model.Booking, error) {
		return run(ctx, actor, id)
	})
	if err != nil {
		if !isExpected(err) {
			h.logger.Error("Callback action failed", zap.String("action", action), zap.Error(err))
		}
		h.answerCallback(ctx, b, callback.ID, model.UserMessage(err), true)
		return
	}

	h.answerCallback(ctx, b, callback.ID, successText, false)
	h.sendHTML(ctx, b, chatID, formatting.FormatBookingInfo(booking), keyboard.BookingActions(booking, actor))
}

func (h *Handlers) callbackAction(action string) (bookingAction, string) {
	switch action {
	case keyboard.ActionCancel:
		return h.bookingService.Cancel, "Бронь отменена"
	case keyboard.ActionConfirm:
		return h.bookingService.Confirm, "Бронь подтверждена"
	case keyboard.ActionComplete:
		return h.bookingService.Complete, "Бронь завершена"
	case keyboard.ActionPaid:
		return h.paymentAction(model.PaymentStatusPaid), "Оплата отмечена"
	case keyboard.ActionRefund:
		return h.paymentAction(model.PaymentStatusRefunded), "Возврат отмечен"
	default:
		return nil, ""
	}
}

// parseCallbackData разбирает "confirm:<uuid>"
func parseCallbackData(data string) (string, uuid.UUID, error) {
	action, rawID, ok := strings.Cut(data, ":")
	if !ok {
		return "", uuid.Nil, usage("<действие>:<бронь>")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return "", uuid.Nil, usage("<действие>:<бронь>")
	}
	return action, id, nil
}
