package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"go.uber.org/zap"
)

// QueryService read-only выборки бронирований
type QueryService struct {
	bookings  BookingStore
	projector *projector
}

func NewQueryService(bookings BookingStore, facilities FacilityDirectory, users UserStore, logger *zap.Logger) *QueryService {
	return &QueryService{
		bookings:  bookings,
		projector: &projector{facilities: facilities, users: users, logger: logger},
	}
}

// ByUser брони пользователя: дата по убыванию, затем время начала по возрастанию
func (s *QueryService) ByUser(ctx context.Context, actor model.Actor, userID int64) ([]*model.Booking, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	if actor.ID != userID && !actor.IsAdmin() {
		return nil, fmt.Errorf("list bookings of user %d: %w", userID, model.ErrForbidden)
	}

	bookings, err := s.bookings.Find(ctx, model.BookingFilter{UserID: &userID}, model.SortDateDescStartAsc)
	if err != nil {
		return nil, fmt.Errorf("find user bookings: %w", err)
	}

	s.projector.populate(ctx, true, bookings...)
	return bookings, nil
}

// ByFacilityAndDate занятые интервалы площадки за день по времени начала.
// Использует то же понятие дня и неотменённой брони, что и ConflictDetector.
// Владельцы и заметки чужих броней видны только администратору.
func (s *QueryService) ByFacilityAndDate(ctx context.Context, actor model.Actor, facilityID int64, date model.Date) ([]*model.Booking, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	bookings, err := s.bookings.Find(ctx, dayFilter(facilityID, date, nil), model.SortStartAsc)
	if err != nil {
		return nil, fmt.Errorf("find facility bookings: %w", err)
	}

	if !actor.IsAdmin() {
		for _, booking := range bookings {
			if booking.UserID != actor.ID {
				booking.UserID = 0
				booking.Notes = ""
			}
		}
	}

	s.projector.populate(ctx, actor.IsAdmin(), bookings...)
	return bookings, nil
}

// All все брони, сначала новые (администратор)
func (s *QueryService) All(ctx context.Context, actor model.Actor) ([]*model.Booking, error) {
	if err := Authorize(actor, nil, ActionListAll); err != nil {
		return nil, err
	}

	bookings, err := s.bookings.Find(ctx, model.BookingFilter{}, model.SortCreatedDesc)
	if err != nil {
		return nil, fmt.Errorf("find all bookings: %w", err)
	}

	s.projector.populate(ctx, true, bookings...)
	return bookings, nil
}

// ByIDPrefix брони, номер которых начинается с prefix: свои для пользователя, любые для администратора.
// Проекции не заполняются, выборка нужна только для поиска по короткому номеру.
func (s *QueryService) ByIDPrefix(ctx context.Context, actor model.Actor, prefix string) ([]*model.Booking, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	prefix = strings.ToLower(prefix)
	if prefix == "" || strings.Trim(prefix, "0123456789abcdef-") != "" {
		return nil, fmt.Errorf("%w: invalid booking id prefix %q", model.ErrValidation, prefix)
	}

	filter := model.BookingFilter{IDPrefix: prefix}
	if !actor.IsAdmin() {
		filter.UserID = &actor.ID
	}

	bookings, err := s.bookings.Find(ctx, filter, model.SortCreatedDesc)
	if err != nil {
		return nil, fmt.Errorf("find bookings by id prefix: %w", err)
	}
	return bookings, nil
}
