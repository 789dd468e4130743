package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/google/uuid"
)

// ConflictDetector ищет пересечения с неотменёнными бронированиями площадки за день.
// Это быстрая проверка перед записью; окончательную гарантию даёт ограничение хранилища.
type ConflictDetector struct {
	bookings BookingStore
}

func NewConflictDetector(bookings BookingStore) *ConflictDetector {
	return &ConflictDetector{bookings: bookings}
}

// HasConflict сообщает пересекается ли [start, end) с занятыми интервалами.
// excludeID исключает само бронирование при переносе.
func (d *ConflictDetector) HasConflict(ctx context.Context, facilityID int64, date model.Date, interval model.Interval, excludeID *uuid.UUID) (bool, error) {
	conflicts, err := d.Conflicts(ctx, facilityID, date, interval, excludeID)
	if err != nil {
		return false, err
	}
	return len(conflicts) > 0, nil
}

// Conflicts возвращает все пересекающиеся бронирования
func (d *ConflictDetector) Conflicts(ctx context.Context, facilityID int64, date model.Date, interval model.Interval, excludeID *uuid.UUID) ([]*model.Booking, error) {
	if err := interval.Validate(); err != nil {
		return nil, err
	}

	existing, err := d.bookings.Find(ctx, dayFilter(facilityID, date, excludeID), model.SortStartAsc)
	if err != nil {
		return nil, fmt.Errorf("find bookings for day: %w", err)
	}

	var conflicts []*model.Booking
	for _, booking := range existing {
		if booking.Blocking() && booking.Interval().Overlaps(interval) {
			conflicts = append(conflicts, booking)
		}
	}

	return conflicts, nil
}

// Check возвращает ErrSlotUnavailable если слот занят
func (d *ConflictDetector) Check(ctx context.Context, facilityID int64, date model.Date, interval model.Interval, excludeID *uuid.UUID) error {
	conflict, err := d.HasConflict(ctx, facilityID, date, interval, excludeID)
	if err != nil {
		return err
	}
	if conflict {
		return fmt.Errorf("facility %d on %s at %s: %w", facilityID, date, interval, model.ErrSlotUnavailable)
	}
	return nil
}

// dayFilter единое определение "день" и "неотменённое" для детектора и ленты доступности
func dayFilter(facilityID int64, date model.Date, excludeID *uuid.UUID) model.BookingFilter {
	return model.BookingFilter{
		FacilityID:       &facilityID,
		Date:             &date,
		ExcludeID:        excludeID,
		ExcludeCancelled: true,
	}
}
