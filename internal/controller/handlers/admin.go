package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/sports_booking/internal/controller/formatting"
	"github.com/Freeeeeet/sports_booking/internal/model"
)

// handleAll показывает все брони (администратор)
func (h *Handlers) handleAll(ctx context.Context, b Sender, req commandRequest) {
	_, actor, ok := h.requireAdmin(ctx, b, req.chatID, req.telegramID)
	if !ok {
		return
	}

	bookings, err := withRetry(ctx, h, CmdAll, func(ctx context.Context) ([]*model.Booking, error) {
		return h.queryService.All(ctx, actor)
	})
	if err != nil {
		h.replyError(ctx, b, req.chatID, CmdAll, err)
		return
	}

	h.sendHTML(ctx, b, req.chatID, formatting.FormatBookingList("🗂 <b>Все брони</b>", bookings), nil)
}

func (h *Handlers) handleConfirm(ctx context.Context, b Sender, req commandRequest) {
	h.withBookingRef(ctx, b, req, CmdConfirm, "/confirm <бронь>", h.bookingService.Confirm, "✅ Бронь подтверждена.")
}

func (h *Handlers) handleComplete(ctx context.Context, b Sender, req commandRequest) {
	h.withBookingRef(ctx, b, req, CmdComplete, "/complete <бронь>", h.bookingService.Complete, "🏁 Бронь завершена.")
}

func (h *Handlers) handlePaid(ctx context.Context, b Sender, req commandRequest) {
	h.withBookingRef(ctx, b, req, CmdPaid, "/paid <бронь>", h.paymentAction(model.PaymentStatusPaid), "💵 Оплата отмечена.")
}

func (h *Handlers) handleRefund(ctx context.Context, b Sender, req commandRequest) {
	h.withBookingRef(ctx, b, req, CmdRefund, "/refund <бронь>", h.paymentAction(model.PaymentStatusRefunded), "↩️ Возврат отмечен.")
}

// handlePrice меняет цену площадки за час; существующие брони не пересчитываются
func (h *Handlers) handlePrice(ctx context.Context, b Sender, req commandRequest) {
	_, actor, ok := h.requireAdmin(ctx, b, req.chatID, req.telegramID)
	if !ok {
		return
	}

	if len(req.args) != 2 {
		h.replyError(ctx, b, req.chatID, CmdPrice, usage("/price <площадка> <сумма в рублях>"))
		return
	}
	facilityID, err := parseFacilityID(req.args[0])
	if err != nil {
		h.replyError(ctx, b, req.chatID, CmdPrice, err)
		return
	}
	price, err := parsePrice(req.args[1])
	if err != nil {
		h.replyError(ctx, b, req.chatID, CmdPrice, err)
		return
	}

	facility, err := withRetry(ctx, h, CmdPrice, func(ctx context.Context) (*model.Facility, error) {
		return h.facilityService.SetPrice(ctx, actor, facilityID, price)
	})
	if err != nil {
		h.replyError(ctx, b, req.chatID, CmdPrice, err)
		return
	}

	h.sendHTML(ctx, b, req.chatID, "✅ Цена обновлена.\n\n"+formatting.FormatFacilityInfo(facility), nil)
}

// handleAvail открывает или закрывает площадку для новых броней
func (h *Handlers) handleAvail(ctx context.Context, b Sender, req commandRequest) {
	_, actor, ok := h.requireAdmin(ctx, b, req.chatID, req.telegramID)
	if !ok {
		return
	}

	if len(req.args) != 2 {
		h.replyError(ctx, b, req.chatID, CmdAvail, usage("/avail <площадка> on|off"))
		return
	}
	facilityID, err := parseFacilityID(req.args[0])
	if err != nil {
		h.replyError(ctx, b, req.chatID, CmdAvail, err)
		return
	}
	available, err := parseOnOff(req.args[1])
	if err != nil {
		h.replyError(ctx, b, req.chatID, CmdAvail, err)
		return
	}

	facility, err := withRetry(ctx, h, CmdAvail, func(ctx context.Context) (*model.Facility, error) {
		return h.facilityService.SetAvailable(ctx, actor, facilityID, available)
	})
	if err != nil {
		h.replyError(ctx, b, req.chatID, CmdAvail, err)
		return
	}

	text := "✅ Площадка открыта для бронирования.\n\n"
	if !facility.Available {
		text = "🚫 Площадка закрыта для бронирования.\n\n"
	}
	h.sendHTML(ctx, b, req.chatID, text+formatting.FormatFacilityInfo(facility), nil)
}

// handleAddFacility: /addfacility <вид спорта> <цена> <название>
func (h *Handlers) handleAddFacility(ctx context.Context, b Sender, req commandRequest) {
	_, actor, ok := h.requireAdmin(ctx, b, req.chatID, req.telegramID)
	if !ok {
		return
	}

	if len(req.args) < 3 {
		h.replyError(ctx, b, req.chatID, CmdAddFacility, usage("/addfacility <вид спорта> <цена> <название>"))
		return
	}
	sport, err := model.ParseSport(req.args[0])
	if err != nil {
		h.replyError(ctx, b, req.chatID, CmdAddFacility, err)
		return
	}
	price, err := parsePrice(req.args[1])
	if err != nil {
		h.replyError(ctx, b, req.chatID, CmdAddFacility, err)
		return
	}

	facility := &model.Facility{
		Name:      strings.Join(req.args[2:], " "),
		Sport:     sport,
		Price:     price,
		Available: true,
	}

	created, err := withRetry(ctx, h, CmdAddFacility, func(ctx context.Context) (*model.Facility, error) {
		return h.facilityService.Create(ctx, actor, facility)
	})
	if err != nil {
		h.replyError(ctx, b, req.chatID, CmdAddFacility, err)
		return
	}

	h.sendHTML(ctx, b, req.chatID, "✅ Площадка добавлена.\n\n"+formatting.FormatFacilityInfo(created), nil)
}

// handleDelFacility удаляет площадку; площадку с бронями удалить нельзя
func (h *Handlers) handleDelFacility(ctx context.Context, b Sender, req commandRequest) {
	_, actor, ok := h.requireAdmin(ctx, b, req.chatID, req.telegramID)
	if !ok {
		return
	}

	if len(req.args) != 1 {
		h.replyError(ctx, b, req.chatID, CmdDelFacility, usage("/delfacility <площадка>"))
		return
	}
	facilityID, err := parseFacilityID(req.args[0])
	if err != nil {
		h.replyError(ctx, b, req.chatID, CmdDelFacility, err)
		return
	}

	err = withRetryErr(ctx, h, CmdDelFacility, func(ctx context.Context) error {
		return h.facilityService.Delete(ctx, actor, facilityID)
	})
	if err != nil {
		h.replyError(ctx, b, req.chatID, CmdDelFacility, err)
		return
	}

	h.sendHTML(ctx, b, req.chatID, fmt.Sprintf("🗑 Площадка <b>#%d</b> удалена.", facilityID), nil)
}
