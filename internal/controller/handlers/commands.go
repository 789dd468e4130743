package handlers

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/sports_booking/internal/controller/dayimage"
	"github.com/Freeeeeet/sports_booking/internal/controller/formatting"
	"github.com/Freeeeeet/sports_booking/internal/model"
	"go.uber.org/zap"
)

const helpText = "📚 Справка по командам:\n\n" +
	"/facilities [вид спорта] - Список площадок\n" +
	"/day <площадка> [YYYY-MM-DD] - Занятость площадки на день\n" +
	"/book <площадка> <YYYY-MM-DD> <HH:MM> <HH:MM> [заметка] - Забронировать\n" +
	"/mybookings - Мои брони\n" +
	"/booking <бронь> - Карточка брони\n" +
	"/cancel <бронь> - Отменить бронь\n" +
	"/move <бронь> <YYYY-MM-DD> <HH:MM> <HH:MM> [площадка] - Перенести бронь\n" +
	"/note <бронь> <текст> - Изменить заметку\n\n" +
	"Номер брони: полный UUID или первые 8 символов.\n" +
	"Время указывается в формате 24 часа, конец интервала не включается."

const adminHelpText = "\n\nДля администраторов:\n" +
	"/all - Все брони\n" +
	"/confirm <бронь> - Подтвердить\n" +
	"/complete <бронь> - Завершить\n" +
	"/paid <бронь> - Отметить оплату\n" +
	"/refund <бронь> - Отметить возврат\n" +
	"/price <площадка> <сумма> - Цена за час в рублях\n" +
	"/avail <площадка> on|off - Открыть или закрыть площадку\n" +
	"/addfacility <вид спорта> <цена> <название> - Добавить площадку\n" +
	"/delfacility <площадка> - Удалить площадку"

// handleStart регистрирует пользователя
func (h *Handlers) handleStart(ctx context.Context, b Sender, req commandRequest) {
	user, err := withRetry(ctx, h, "register user", func(ctx context.Context) (*model.User, error) {
		return h.userService.Register(ctx, req.telegramID, req.name)
	})
	if err != nil {
		h.logger.Error("Failed to register user", zap.Int64("telegram_id", req.telegramID), zap.Error(err))
		h.sendError(ctx, b, req.chatID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Это бот бронирования спортивных площадок: футбольные поля, корты, бассейн и тренажёрный зал.\n\n"+
			"Начните со списка площадок: /facilities\n"+
			"Все команды: /help",
		user.Name,
	)
	if user.Role == model.RoleAdmin {
		welcomeText += "\n\n🛡 Вы администратор."
	}

	h.sendMessage(ctx, b, req.chatID, welcomeText)
}

// handleHelp показывает справку; администраторы видят свои команды
func (h *Handlers) handleHelp(ctx context.Context, b Sender, req commandRequest) {
	text := helpText
	if h.userService.IsAdminTelegramID(req.telegramID) {
		text += adminHelpText
	}
	h.sendMessage(ctx, b, req.chatID, text)
}

// handleFacilities показывает справочник площадок, при необходимости по виду спорта
func (h *Handlers) handleFacilities(ctx context.Context, b Sender, req commandRequest) {
	_, actor, ok := h.requireUser(ctx, b, req.chatID, req.telegramID)
	if !ok {
		return
	}

	var sport model.Sport
	if len(req.args) > 0 {
		parsed, err := model.ParseSport(req.args[0])
		if err != nil {
			h.replyError(ctx, b, req.chatID, CmdFacilities, err)
			return
		}
		sport = parsed
	}

	facilities, err := withRetry(ctx, h, CmdFacilities, func(ctx context.Context) ([]*model.Facility, error) {
		if sport != "" {
			return h.facilityService.ListBySport(ctx, actor, sport)
		}
		return h.facilityService.List(ctx, actor)
	})
	if err != nil {
		h.replyError(ctx, b, req.chatID, CmdFacilities, err)
		return
	}

	h.sendHTML(ctx, b, req.chatID, formatting.FormatFacilityList(facilities), nil)
}

// handleDay показывает занятость площадки на день: текстом и картинкой
func (h *Handlers) handleDay(ctx context.Context, b Sender, req commandRequest) {
	_, actor, ok := h.requireUser(ctx, b, req.chatID, req.telegramID)
	if !ok {
		return
	}

	facilityID, date, err := parseDayArgs(req.args, h.today())
	if err != nil {
		h.replyError(ctx, b, req.chatID, CmdDay, err)
		return
	}

	facility, err := withRetry(ctx, h, CmdDay, func(ctx context.Context) (*model.Facility, error) {
		return h.facilityService.Get(ctx, actor, facilityID)
	})
	if err != nil {
		h.replyError(ctx, b, req.chatID, CmdDay, err)
		return
	}

	bookings, err := withRetry(ctx, h, CmdDay, func(ctx context.Context) ([]*model.Booking, error) {
		return h.queryService.ByFacilityAndDate(ctx, actor, facilityID, date)
	})
	if err != nil {
		h.replyError(ctx, b, req.chatID, CmdDay, err)
		return
	}

	h.sendHTML(ctx, b, req.chatID, formatting.FormatDayFeed(facility, date, bookings), nil)

	image, err := dayimage.Render(facility, date, bookings)
	if err != nil {
		h.logger.Warn("Failed to render day image",
			zap.Int64("facility_id", facilityID),
			zap.String("date", date.String()),
			zap.Error(err))
		return
	}
	caption := fmt.Sprintf("%s, %s", facility.Name, formatting.FormatDate(date))
	h.sendPhoto(ctx, b, req.chatID, fmt.Sprintf("day_%d_%s.png", facilityID, date), image, caption)
}
