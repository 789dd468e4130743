package handlers

import (
	"context"
	"strings"
	"unicode"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Команды бота
const (
	CmdStart       = "start"
	CmdHelp        = "help"
	CmdFacilities  = "facilities"
	CmdDay         = "day"
	CmdBook        = "book"
	CmdMyBookings  = "mybookings"
	CmdBooking     = "booking"
	CmdCancel      = "cancel"
	CmdMove        = "move"
	CmdNote        = "note"
	CmdAll         = "all"
	CmdConfirm     = "confirm"
	CmdComplete    = "complete"
	CmdPaid        = "paid"
	CmdRefund      = "refund"
	CmdPrice       = "price"
	CmdAvail       = "avail"
	CmdAddFacility = "addfacility"
	CmdDelFacility = "delfacility"
)

// commandRequest разобранная команда пользователя
type commandRequest struct {
	chatID     int64
	telegramID int64
	name       string
	args       []string
	rest       string // текст после команды как есть
}

type commandHandler func(ctx context.Context, b Sender, req commandRequest)

func (h *Handlers) buildCommands() map[string]commandHandler {
	return map[string]commandHandler{
		CmdStart:       h.handleStart,
		CmdHelp:        h.handleHelp,
		CmdFacilities:  h.handleFacilities,
		CmdDay:         h.handleDay,
		CmdBook:        h.handleBook,
		CmdMyBookings:  h.handleMyBookings,
		CmdBooking:     h.handleBooking,
		CmdCancel:      h.handleCancel,
		CmdMove:        h.handleMove,
		CmdNote:        h.handleNote,
		CmdAll:         h.handleAll,
		CmdConfirm:     h.handleConfirm,
		CmdComplete:    h.handleComplete,
		CmdPaid:        h.handlePaid,
		CmdRefund:      h.handleRefund,
		CmdPrice:       h.handlePrice,
		CmdAvail:       h.handleAvail,
		CmdAddFacility: h.handleAddFacility,
		CmdDelFacility: h.handleDelFacility,
	}
}

// HandleMessage точка входа для всех текстовых команд
func (h *Handlers) HandleMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.Dispatch(ctx, b, update)
}

// Dispatch распределяет команду по соответствующему обработчику
func (h *Handlers) Dispatch(ctx context.Context, b Sender, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	name, rest, ok := parseCommand(update.Message.Text)
	if !ok {
		return
	}

	h.logger.Info("Routing command",
		zap.String("command", name),
		zap.Int64("user_id", update.Message.From.ID),
		zap.String("user_name", update.Message.From.FirstName))

	handler, found := h.commands[name]
	if !found {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Неизвестная команда. Список команд: /help")
		return
	}

	handler(ctx, b, commandRequest{
		chatID:     update.Message.Chat.ID,
		telegramID: update.Message.From.ID,
		name:       displayName(update.Message.From),
		args:       strings.Fields(rest),
		rest:       rest,
	})
}

// parseCommand отделяет имя команды от аргументов: "/book@my_bot 1 ..." -> "book", "1 ..."
func parseCommand(text string) (name, rest string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}

	head, rest := text[1:], ""
	if idx := strings.IndexFunc(head, unicode.IsSpace); idx >= 0 {
		head, rest = head[:idx], head[idx:]
	}
	head, _, _ = strings.Cut(head, "@")
	if head == "" {
		return "", "", false
	}

	return strings.ToLower(head), strings.TrimSpace(rest), true
}

func displayName(user *models.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = user.Username
	}
	return name
}
