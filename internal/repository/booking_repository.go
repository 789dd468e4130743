package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/Freeeeeet/sports_booking/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(repo *base.Repository) *BookingRepository {
	return &BookingRepository{Repository: repo}
}

// Insert создаёт бронирование. Пересечение отклоняет ограничение bookings_no_overlap.
func (r *BookingRepository) Insert(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO bookings (id, user_id, facility_id, booking_date, start_minute, end_minute,
			total_price, status, payment_status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.ExecAffected(
		ctx, query,
		booking.ID,
		booking.UserID,
		booking.FacilityID,
		pgDate(booking.Date),
		booking.StartTime.Minutes(),
		booking.EndTime.Minutes(),
		booking.TotalPrice,
		string(booking.Status),
		string(booking.PaymentStatus),
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	return base.Classify("insert booking", err)
}

// Find возвращает бронирования по фильтру в заданном порядке
func (r *BookingRepository) Find(ctx context.Context, filter model.BookingFilter, sort model.BookingSort) ([]*model.Booking, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	args := base.NewArgs(base.Dollar)
	query := "SELECT " + base.BookingColumns + " FROM bookings" +
		base.BookingWhere(args, filter, pgDate) +
		base.BookingOrderBy(sort)

	rows, err := r.Query(ctx, query, args.Values()...)
	if err != nil {
		return nil, base.Classify("find bookings", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, base.Classify("scan booking", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, base.Classify("find bookings", err)
	}

	return bookings, nil
}

// FindOne возвращает первое бронирование по фильтру или nil
func (r *BookingRepository) FindOne(ctx context.Context, filter model.BookingFilter) (*model.Booking, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	args := base.NewArgs(base.Dollar)
	query := "SELECT " + base.BookingColumns + " FROM bookings" +
		base.BookingWhere(args, filter, pgDate) +
		" LIMIT 1"

	booking, err := scanBooking(r.QueryRow(ctx, query, args.Values()...))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Бронирование не найдено
		}
		return nil, base.Classify("find booking", err)
	}

	return booking, nil
}

// UpdateByID применяет патч и возвращает обновлённую запись.
// Если задан IfStatus и статус уже другой, возвращает model.ErrInvalidTransition.
func (r *BookingRepository) UpdateByID(ctx context.Context, id uuid.UUID, patch model.BookingPatch) (*model.Booking, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	args := base.NewArgs(base.Dollar)
	query := "UPDATE bookings" + base.BookingSet(args, patch, pgDate) +
		" WHERE id = " + args.Add(id)
	if patch.IfStatus != nil {
		query += " AND status = " + args.Add(string(*patch.IfStatus))
	}
	query += " RETURNING " + base.BookingColumns

	booking, err := scanBooking(r.QueryRow(ctx, query, args.Values()...))
	if err == nil {
		return booking, nil
	}
	if !base.IsNotFound(err) {
		return nil, base.Classify("update booking", err)
	}

	// Ни одна строка не обновилась: либо записи нет, либо статус изменился
	var exists bool
	err = r.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return nil, base.Classify("check booking", err)
	}
	if !exists {
		return nil, fmt.Errorf("booking %s: %w", id, model.ErrNotFound)
	}
	return nil, fmt.Errorf("booking %s changed concurrently: %w", id, model.ErrInvalidTransition)
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var (
		booking    model.Booking
		date       time.Time
		start, end int
		status     string
		payment    string
	)

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.FacilityID,
		&date,
		&start,
		&end,
		&booking.TotalPrice,
		&status,
		&payment,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Date = model.DateOf(date)
	booking.StartTime = model.Clock(start)
	booking.EndTime = model.Clock(end)
	booking.Status = model.BookingStatus(status)
	booking.PaymentStatus = model.PaymentStatus(payment)

	return &booking, nil
}

// pgDate представление дня для столбца DATE
func pgDate(d model.Date) any {
	return d.Time()
}
