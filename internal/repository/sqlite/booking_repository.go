package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/Freeeeeet/sports_booking/internal/repository/base"
	"github.com/google/uuid"
)

type BookingRepository struct {
	*Store
}

func NewBookingRepository(store *Store) *BookingRepository {
	return &BookingRepository{Store: store}
}

// Insert создаёт бронирование; пересечение отклоняет триггер
func (r *BookingRepository) Insert(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO bookings (id, user_id, facility_id, booking_date, start_minute, end_minute,
			total_price, status, payment_status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(
		ctx, query,
		booking.ID.String(),
		booking.UserID,
		booking.FacilityID,
		booking.Date.String(),
		booking.StartTime.Minutes(),
		booking.EndTime.Minutes(),
		booking.TotalPrice,
		string(booking.Status),
		string(booking.PaymentStatus),
		booking.Notes,
		booking.CreatedAt.UTC(),
		booking.UpdatedAt.UTC(),
	)

	return classify("insert booking", err)
}

// Find возвращает бронирования по фильтру в заданном порядке
func (r *BookingRepository) Find(ctx context.Context, filter model.BookingFilter, sort model.BookingSort) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	args := base.NewArgs(base.Question)
	query := "SELECT " + base.BookingColumns + " FROM bookings" +
		base.BookingWhere(args, filter, sqliteDate) +
		base.BookingOrderBy(sort)

	rows, err := r.db.QueryContext(ctx, query, args.Values()...)
	if err != nil {
		return nil, classify("find bookings", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, classify("scan booking", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, classify("find bookings", err)
	}

	return bookings, nil
}

// FindOne возвращает первое бронирование по фильтру или nil
func (r *BookingRepository) FindOne(ctx context.Context, filter model.BookingFilter) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	args := base.NewArgs(base.Question)
	query := "SELECT " + base.BookingColumns + " FROM bookings" +
		base.BookingWhere(args, filter, sqliteDate) +
		" LIMIT 1"

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, args.Values()...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("find booking", err)
	}

	return booking, nil
}

// UpdateByID применяет патч и возвращает обновлённую запись.
// Если задан IfStatus и статус уже другой, возвращает model.ErrInvalidTransition.
func (r *BookingRepository) UpdateByID(ctx context.Context, id uuid.UUID, patch model.BookingPatch) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	patch.UpdatedAt = patch.UpdatedAt.UTC()

	args := base.NewArgs(base.Question)
	query := "UPDATE bookings" + base.BookingSet(args, patch, sqliteDate) +
		" WHERE id = " + args.Add(id.String())
	if patch.IfStatus != nil {
		query += " AND status = " + args.Add(string(*patch.IfStatus))
	}
	query += " RETURNING " + base.BookingColumns

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, args.Values()...))
	if err == nil {
		return booking, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, classify("update booking", err)
	}

	var exists bool
	err = r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = ?)`, id.String()).Scan(&exists)
	if err != nil {
		return nil, classify("check booking", err)
	}
	if !exists {
		return nil, fmt.Errorf("booking %s: %w", id, model.ErrNotFound)
	}
	return nil, fmt.Errorf("booking %s changed concurrently: %w", id, model.ErrInvalidTransition)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*model.Booking, error) {
	var (
		booking    model.Booking
		id         string
		date       string
		start, end int
		status     string
		payment    string
	)

	err := row.Scan(
		&id,
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

	booking.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse booking id: %w", err)
	}
	booking.Date, err = model.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("parse booking date: %w", err)
	}
	booking.StartTime = model.Clock(start)
	booking.EndTime = model.Clock(end)
	booking.Status = model.BookingStatus(status)
	booking.PaymentStatus = model.PaymentStatus(payment)

	return &booking, nil
}
