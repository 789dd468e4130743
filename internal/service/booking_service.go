package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const maxNotesLength = 500

type BookingService struct {
	bookings   BookingStore
	facilities FacilityDirectory
	detector   *ConflictDetector
	projector  *projector
	notifier   Notifier
	logger     *zap.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// BookingOption настраивает BookingService
type BookingOption func(*BookingService)

// WithNotifier подключает рассылку событий
func WithNotifier(notifier Notifier) BookingOption {
	return func(s *BookingService) {
		s.notifier = notifier
	}
}

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) BookingOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings BookingStore,
	facilities FacilityDirectory,
	users UserStore,
	logger *zap.Logger,
	opts ...BookingOption,
) *BookingService {
	s := &BookingService{
		bookings:   bookings,
		facilities: facilities,
		detector:   NewConflictDetector(bookings),
		projector:  &projector{facilities: facilities, users: users, logger: logger},
		logger:     logger,
		tracer:     newTracer(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBookingInput данные новой брони
type CreateBookingInput struct {
	FacilityID int64
	Date       model.Date
	StartTime  model.Clock
	EndTime    model.Clock
	Notes      string
}

func (in CreateBookingInput) interval() model.Interval {
	return model.Interval{Start: in.StartTime, End: in.EndTime}
}

// CreateBooking создаёт бронь в статусе pending от имени actor
func (s *BookingService) CreateBooking(ctx context.Context, actor model.Actor, input CreateBookingInput) (_ *model.Booking, err error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.CreateBooking", trace.WithAttributes(
		attribute.Int64("facility_id", input.FacilityID),
		attribute.String("date", input.Date.String()),
	))
	defer func() { endSpan(span, err) }()

	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	if input.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", model.ErrValidation)
	}

	interval := input.interval()
	if err := interval.Validate(); err != nil {
		return nil, err
	}

	notes, err := normalizeNotes(input.Notes)
	if err != nil {
		return nil, err
	}

	// Получаем площадку и цену
	facility, err := s.bookableFacility(ctx, input.FacilityID)
	if err != nil {
		return nil, err
	}

	// Быстрая проверка пересечений до записи
	if err := s.detector.Check(ctx, facility.ID, input.Date, interval, nil); err != nil {
		return nil, err
	}

	now := s.now()
	booking := &model.Booking{
		ID:            uuid.New(),
		UserID:        actor.ID,
		FacilityID:    facility.ID,
		Date:          input.Date,
		StartTime:     interval.Start,
		EndTime:       interval.End,
		TotalPrice:    model.TotalPriceFor(facility.Price, interval),
		Status:        model.BookingStatusPending,
		PaymentStatus: model.PaymentStatusPending,
		Notes:         notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Хранилище само отклонит пересечение, если параллельная запись успела раньше
	if err := s.bookings.Insert(ctx, booking); err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	s.projector.populate(ctx, true, booking)

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.Int64("facility_id", booking.FacilityID),
		zap.Int64("user_id", booking.UserID),
		zap.Stringer("date", booking.Date),
		zap.Stringer("interval", booking.Interval()),
		zap.Int("total_price", booking.TotalPrice),
	)

	s.notify(ctx, model.BookingEvent{Type: model.EventBookingCreated, Booking: booking, Actor: actor})

	return booking, nil
}

// Get возвращает бронь владельцу или администратору
func (s *BookingService) Get(ctx context.Context, actor model.Actor, bookingID uuid.UUID) (_ *model.Booking, err error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.Get", trace.WithAttributes(
		attribute.String("booking_id", bookingID.String()),
	))
	defer func() { endSpan(span, err) }()

	booking, err := s.load(ctx, actor, bookingID, ActionView)
	if err != nil {
		return nil, err
	}

	s.projector.populate(ctx, true, booking)
	return booking, nil
}

// SetStatus переводит бронь в новый статус по таблице переходов.
// Повторная отмена уже отменённой брони ничего не меняет и не считается ошибкой.
func (s *BookingService) SetStatus(ctx context.Context, actor model.Actor, bookingID uuid.UUID, target model.BookingStatus) (_ *model.Booking, err error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.SetStatus", trace.WithAttributes(
		attribute.String("booking_id", bookingID.String()),
		attribute.String("target_status", string(target)),
	))
	defer func() { endSpan(span, err) }()

	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown booking status %q", model.ErrValidation, target)
	}

	booking, err := s.load(ctx, actor, bookingID, statusAction(target))
	if err != nil {
		return nil, err
	}

	current := booking.Status
	if current == model.BookingStatusCancelled && target == model.BookingStatusCancelled {
		s.projector.populate(ctx, true, booking)
		return booking, nil
	}

	if !current.CanTransitionTo(target) {
		return nil, fmt.Errorf("booking %s from %s to %s: %w", booking.ShortID(), current, target, model.ErrInvalidTransition)
	}

	// Обновляем только если статус не изменился параллельно
	updated, err := s.bookings.UpdateByID(ctx, bookingID, model.BookingPatch{
		Status:    &target,
		UpdatedAt: s.now(),
		IfStatus:  &current,
	})
	if err != nil {
		if target == model.BookingStatusCancelled && errors.Is(err, model.ErrInvalidTransition) {
			return s.alreadyCancelled(ctx, bookingID, err)
		}
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	s.projector.populate(ctx, true, updated)

	s.logger.Info("Booking status changed",
		zap.String("booking_id", updated.ID.String()),
		zap.Int64("actor_id", actor.ID),
		zap.String("from", string(current)),
		zap.String("to", string(updated.Status)),
	)

	s.notify(ctx, model.BookingEvent{
		Type:       model.EventBookingStatusChanged,
		Booking:    updated,
		Actor:      actor,
		PrevStatus: current,
	})

	return updated, nil
}

// alreadyCancelled разбирает проигранную гонку отмены: если бронь уже отменена
// параллельным запросом, возвращает её без ошибки и без события
func (s *BookingService) alreadyCancelled(ctx context.Context, bookingID uuid.UUID, raceErr error) (*model.Booking, error) {
	booking, err := s.bookings.FindOne(ctx, model.BookingFilter{ID: &bookingID})
	if err != nil {
		return nil, fmt.Errorf("reload booking: %w", err)
	}
	if booking == nil || booking.Status != model.BookingStatusCancelled {
		return nil, fmt.Errorf("update booking status: %w", raceErr)
	}

	s.logger.Debug("Booking already cancelled concurrently", zap.String("booking_id", bookingID.String()))

	s.projector.populate(ctx, true, booking)
	return booking, nil
}

// Cancel отменяет бронь, освобождая слот
func (s *BookingService) Cancel(ctx context.Context, actor model.Actor, bookingID uuid.UUID) (*model.Booking, error) {
	return s.SetStatus(ctx, actor, bookingID, model.BookingStatusCancelled)
}

// Confirm подтверждает бронь (администратор)
func (s *BookingService) Confirm(ctx context.Context, actor model.Actor, bookingID uuid.UUID) (*model.Booking, error) {
	return s.SetStatus(ctx, actor, bookingID, model.BookingStatusConfirmed)
}

// Complete завершает подтверждённую бронь (администратор)
func (s *BookingService) Complete(ctx context.Context, actor model.Actor, bookingID uuid.UUID) (*model.Booking, error) {
	return s.SetStatus(ctx, actor, bookingID, model.BookingStatusCompleted)
}

// SetPaymentStatus меняет статус оплаты. Статус брони при этом не трогается.
func (s *BookingService) SetPaymentStatus(ctx context.Context, actor model.Actor, bookingID uuid.UUID, payment model.PaymentStatus) (_ *model.Booking, err error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.SetPaymentStatus", trace.WithAttributes(
		attribute.String("booking_id", bookingID.String()),
		attribute.String("payment_status", string(payment)),
	))
	defer func() { endSpan(span, err) }()

	if !payment.Valid() {
		return nil, fmt.Errorf("%w: unknown payment status %q", model.ErrValidation, payment)
	}

	booking, err := s.load(ctx, actor, bookingID, ActionSetPayment)
	if err != nil {
		return nil, err
	}

	if booking.PaymentStatus == payment {
		s.projector.populate(ctx, true, booking)
		return booking, nil
	}

	previous := booking.PaymentStatus
	updated, err := s.bookings.UpdateByID(ctx, bookingID, model.BookingPatch{
		PaymentStatus: &payment,
		UpdatedAt:     s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}

	s.projector.populate(ctx, true, updated)

	s.logger.Info("Booking payment status changed",
		zap.String("booking_id", updated.ID.String()),
		zap.Int64("actor_id", actor.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(updated.PaymentStatus)),
	)

	s.notify(ctx, model.BookingEvent{
		Type:              model.EventBookingPaymentChanged,
		Booking:           updated,
		Actor:             actor,
		PrevPaymentStatus: previous,
	})

	return updated, nil
}

// UpdateFields меняет площадку, дату, время или заметки брони в нетерминальном статусе.
// Перенос проходит ту же проверку пересечений, что и создание. Цена считается по текущей
// цене новой площадки только при смене площадки, иначе по ставке самой брони.
func (s *BookingService) UpdateFields(ctx context.Context, actor model.Actor, bookingID uuid.UUID, changes model.BookingChanges) (_ *model.Booking, err error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.UpdateFields", trace.WithAttributes(
		attribute.String("booking_id", bookingID.String()),
		attribute.Bool("touches_slot", changes.TouchesSlot()),
	))
	defer func() { endSpan(span, err) }()

	if changes.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", model.ErrValidation)
	}

	booking, err := s.load(ctx, actor, bookingID, ActionUpdate)
	if err != nil {
		return nil, err
	}

	if booking.Status.IsTerminal() {
		return nil, fmt.Errorf("update %s booking %s: %w", booking.Status, booking.ShortID(), model.ErrInvalidTransition)
	}

	current := booking.Status
	patch := model.BookingPatch{
		UpdatedAt: s.now(),
		IfStatus:  &current,
	}

	if changes.Notes != nil {
		notes, err := normalizeNotes(*changes.Notes)
		if err != nil {
			return nil, err
		}
		patch.Notes = &notes
	}

	if changes.TouchesSlot() {
		facilityID := booking.FacilityID
		if changes.FacilityID != nil {
			facilityID = *changes.FacilityID
		}
		date := booking.Date
		if changes.Date != nil {
			date = *changes.Date
		}
		interval := booking.Interval()
		if changes.StartTime != nil {
			interval.Start = *changes.StartTime
		}
		if changes.EndTime != nil {
			interval.End = *changes.EndTime
		}

		if err := interval.Validate(); err != nil {
			return nil, err
		}

		facility, err := s.bookableFacility(ctx, facilityID)
		if err != nil {
			return nil, err
		}

		if err := s.detector.Check(ctx, facilityID, date, interval, &booking.ID); err != nil {
			return nil, err
		}

		// На той же площадке ставка брони остаётся прежней
		price := model.RescalePrice(booking.TotalPrice, booking.Interval(), interval)
		if facilityID != booking.FacilityID {
			price = model.TotalPriceFor(facility.Price, interval)
		}
		patch.FacilityID = &facilityID
		patch.Date = &date
		patch.StartTime = &interval.Start
		patch.EndTime = &interval.End
		patch.TotalPrice = &price
	}

	updated, err := s.bookings.UpdateByID(ctx, bookingID, patch)
	if err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	s.projector.populate(ctx, true, updated)

	s.logger.Info("Booking updated",
		zap.String("booking_id", updated.ID.String()),
		zap.Int64("actor_id", actor.ID),
		zap.Int64("facility_id", updated.FacilityID),
		zap.Stringer("date", updated.Date),
		zap.Stringer("interval", updated.Interval()),
		zap.Int("total_price", updated.TotalPrice),
	)

	s.notify(ctx, model.BookingEvent{Type: model.EventBookingUpdated, Booking: updated, Actor: actor})

	return updated, nil
}

// load читает бронь и проверяет права на действие
func (s *BookingService) load(ctx context.Context, actor model.Actor, bookingID uuid.UUID, action Action) (*model.Booking, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	booking, err := s.bookings.FindOne(ctx, model.BookingFilter{ID: &bookingID})
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}

	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, model.ErrNotFound)
	}

	if err := Authorize(actor, booking, action); err != nil {
		return nil, err
	}

	return booking, nil
}

// bookableFacility возвращает площадку, открытую для бронирования
func (s *BookingService) bookableFacility(ctx context.Context, facilityID int64) (*model.Facility, error) {
	facility, err := s.facilities.GetByID(ctx, facilityID)
	if err != nil {
		return nil, fmt.Errorf("get facility: %w", err)
	}

	if facility == nil {
		return nil, fmt.Errorf("facility %d: %w", facilityID, model.ErrNotFound)
	}

	if !facility.Available {
		return nil, fmt.Errorf("%w: facility is not available for booking", model.ErrValidation)
	}

	return facility, nil
}

// notify отправляет событие; сбой доставки только логируется
func (s *BookingService) notify(ctx context.Context, event model.BookingEvent) {
	if s.notifier == nil {
		return
	}

	event.OccurredAt = s.now()

	if err := s.notifier.Notify(ctx, event); err != nil {
		level := s.logger.Warn
		if errors.Is(err, context.Canceled) {
			level = s.logger.Debug
		}
		level("Failed to deliver booking event",
			zap.String("event", string(event.Type)),
			zap.String("booking_id", event.Booking.ID.String()),
			zap.Error(err),
		)
	}
}

func normalizeNotes(notes string) (string, error) {
	notes = strings.TrimSpace(notes)
	if len([]rune(notes)) > maxNotesLength {
		return "", fmt.Errorf("%w: notes must be at most %d characters", model.ErrValidation, maxNotesLength)
	}
	return notes, nil
}
