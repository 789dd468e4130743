package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/sports_booking/internal/controller/formatting"
	"github.com/Freeeeeet/sports_booking/internal/controller/keyboard"
	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/google/uuid"
)

// handleBook создаёт бронь
func (h *Handlers) handleBook(ctx context.Context, b Sender, req commandRequest) {
	_, actor, ok := h.requireUser(ctx, b, req.chatID, req.telegramID)
	if !ok {
		return
	}

	input, err := parseBookArgs(req.args, h.today())
	if err != nil {
		h.replyError(ctx, b, req.chatID, CmdBook, err)
		return
	}

	booking, err := withRetry(ctx, h, CmdBook, func(ctx context.Context) (*model.Booking, error) {
		return h.bookingService.CreateBooking(ctx, actor, input)
	})
	if err != nil {
		h.replyError(ctx, b, req.chatID, CmdBook, err)
		return
	}

	h.sendHTML(ctx, b, req.chatID,
		"✅ Бронь создана и ожидает подтверждения.\n\n"+formatting.FormatBookingInfo(booking),
		keyboard.BookingActions(booking, actor))
}

// handleMyBookings показывает брони пользователя
func (h *Handlers) handleMyBookings(ctx context.Context, b Sender, req commandRequest) {
	user, actor, ok := h.requireUser(ctx, b, req.chatID, req.telegramID)
	if !ok {
		return
	}

	bookings, err := withRetry(ctx, h, CmdMyBookings, func(ctx context.Context) ([]*model.Booking, error) {
		return h.queryService.ByUser(ctx, actor, user.ID)
	})
	if err != nil {
		h.replyError(ctx, b, req.chatID, CmdMyBookings, err)
		return
	}

	h.sendHTML(ctx, b, req.chatID, formatting.FormatBookingList("📅 <b>Мои брони</b>", bookings), nil)
}

// handleBooking показывает карточку брони с кнопками действий
func (h *Handlers) handleBooking(ctx context.Context, b Sender, req commandRequest) {
	h.withBookingRef(ctx, b, req, CmdBooking, "/booking <бронь>", func(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Booking, error) {
		return h.bookingService.Get(ctx, actor, id)
	}, "")
}

// handleCancel отменяет бронь
func (h *Handlers) handleCancel(ctx context.Context, b Sender, req commandRequest) {
	h.withBookingRef(ctx, b, req, CmdCancel, "/cancel <бронь>", h.bookingService.Cancel, "✅ Бронь отменена.")
}

// handleMove переносит бронь на другое время или площадку
func (h *Handlers) handleMove(ctx context.Context, b Sender, req commandRequest) {
	_, actor, ok := h.requireUser(ctx, b, req.chatID, req.telegramID)
	if !ok {
		return
	}

	ref, changes, err := parseMoveArgs(req.args, h.today())
	if err != nil {
		h.replyError(ctx, b, req.chatID, CmdMove, err)
		return
	}

	h.updateBooking(ctx, b, req.chatID, actor, CmdMove, ref, changes, "✅ Бронь перенесена.")
}

// handleNote меняет заметку к брони; пустой текст очищает заметку
func (h *Handlers) handleNote(ctx context.Context, b Sender, req commandRequest) {
	_, actor, ok := h.requireUser(ctx, b, req.chatID, req.telegramID)
	if !ok {
		return
	}

	if len(req.args) < 1 {
		h.replyError(ctx, b, req.chatID, CmdNote, usage("/note <бронь> <текст>"))
		return
	}

	ref := req.args[0]
	notes := strings.TrimSpace(strings.TrimPrefix(req.rest, ref))

	h.updateBooking(ctx, b, req.chatID, actor, CmdNote, ref, model.BookingChanges{Notes: &notes}, "✅ Заметка сохранена.")
}

func (h *Handlers) updateBooking(
	ctx context.Context,
	b Sender,
	chatID int64,
	actor model.Actor,
	op string,
	ref string,
	changes model.BookingChanges,
	successText string,
) {
	id, err := h.resolveBookingRef(ctx, actor, ref)
	if err != nil {
		h.replyError(ctx, b, chatID, op, err)
		return
	}

	booking, err := withRetry(ctx, h, op, func(ctx context.Context) (*model.Booking, error) {
		return h.bookingService.UpdateFields(ctx, actor, id, changes)
	})
	if err != nil {
		h.replyError(ctx, b, chatID, op, err)
		return
	}

	h.sendHTML(ctx, b, chatID, successText+"\n\n"+formatting.FormatBookingInfo(booking), keyboard.BookingActions(booking, actor))
}

// bookingAction операция над бронью по её идентификатору
type bookingAction func(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Booking, error)

// withBookingRef общий сценарий команд вида "/cmd <бронь>"
func (h *Handlers) withBookingRef(
	ctx context.Context,
	b Sender,
	req commandRequest,
	op string,
	format string,
	action bookingAction,
	successText string,
) {
	_, actor, ok := h.requireUser(ctx, b, req.chatID, req.telegramID)
	if !ok {
		return
	}

	if len(req.args) != 1 {
		h.replyError(ctx, b, req.chatID, op, usage(format))
		return
	}

	id, err := h.resolveBookingRef(ctx, actor, req.args[0])
	if err != nil {
		h.replyError(ctx, b, req.chatID, op, err)
		return
	}

	booking, err := withRetry(ctx, h, op, func(ctx context.Context) (*model.Booking, error) {
		return action(ctx, actor, id)
	})
	if err != nil {
		h.replyError(ctx, b, req.chatID, op, err)
		return
	}

	text := formatting.FormatBookingInfo(booking)
	if successText != "" {
		text = successText + "\n\n" + text
	}
	h.sendHTML(ctx, b, req.chatID, text, keyboard.BookingActions(booking, actor))
}

// paymentAction оборачивает смену статуса оплаты в bookingAction
func (h *Handlers) paymentAction(payment model.PaymentStatus) bookingAction {
	return func(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Booking, error) {
		return h.bookingService.SetPaymentStatus(ctx, actor, id, payment)
	}
}
