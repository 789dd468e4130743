package handlers

import (
	"context"
	"time"

	"github.com/Freeeeeet/sports_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// Sender часть API бота, которой пользуются обработчики
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService     *service.UserService
	bookingService  *service.BookingService
	queryService    *service.QueryService
	facilityService *service.FacilityService
	logger          *zap.Logger

	commands map[string]commandHandler
	backoff  func() retry.Backoff
	today    func() time.Time
}

// Option настраивает Handlers
type Option func(*Handlers)

// WithBackoff подменяет стратегию повторов
func WithBackoff(backoff func() retry.Backoff) Option {
	return func(h *Handlers) {
		h.backoff = backoff
	}
}

// WithToday подменяет текущую дату для команд без даты
func WithToday(today func() time.Time) Option {
	return func(h *Handlers) {
		h.today = today
	}
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	userService *service.UserService,
	bookingService *service.BookingService,
	queryService *service.QueryService,
	facilityService *service.FacilityService,
	logger *zap.Logger,
	opts ...Option,
) *Handlers {
	h := &Handlers{
		userService:     userService,
		bookingService:  bookingService,
		queryService:    queryService,
		facilityService: facilityService,
		logger:          logger,
		backoff:         defaultBackoff,
		today:           time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.commands = h.buildCommands()
	return h
}
