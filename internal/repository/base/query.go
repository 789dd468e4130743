package base

import (
	"strconv"
	"strings"

	"github.com/Freeeeeet/sports_booking/internal/model"
)

// Placeholder формирует n-й параметр запроса
type Placeholder func(n int) string

// Dollar параметры PostgreSQL: $1, $2, ...
func Dollar(n int) string {
	return "$" + strconv.Itoa(n)
}

// Question параметры SQLite: ?
func Question(int) string {
	return "?"
}

// Args накапливает параметры запроса
type Args struct {
	placeholder Placeholder
	values      []any
}

func NewArgs(placeholder Placeholder) *Args {
	return &Args{placeholder: placeholder}
}

// Add добавляет значение и возвращает его плейсхолдер
func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return a.placeholder(len(a.values))
}

func (a *Args) Values() []any {
	return a.values
}

// BookingColumns столбцы bookings в порядке сканирования
const BookingColumns = `id, user_id, facility_id, booking_date, start_minute, end_minute,
	total_price, status, payment_status, notes, created_at, updated_at`

// BookingWhere строит WHERE по фильтру; dateValue задаёт представление даты в диалекте
func BookingWhere(args *Args, filter model.BookingFilter, dateValue func(model.Date) any) string {
	var conditions []string

	if filter.ID != nil {
		conditions = append(conditions, "id = "+args.Add(*filter.ID))
	}
	if filter.IDPrefix != "" {
		conditions = append(conditions, "CAST(id AS TEXT) LIKE "+args.Add(filter.IDPrefix+"%"))
	}
	if filter.UserID != nil {
		conditions = append(conditions, "user_id = "+args.Add(*filter.UserID))
	}
	if filter.FacilityID != nil {
		conditions = append(conditions, "facility_id = "+args.Add(*filter.FacilityID))
	}
	if filter.Date != nil {
		conditions = append(conditions, "booking_date = "+args.Add(dateValue(*filter.Date)))
	}
	if filter.ExcludeID != nil {
		conditions = append(conditions, "id <> "+args.Add(*filter.ExcludeID))
	}
	if filter.ExcludeCancelled {
		conditions = append(conditions, "status <> "+args.Add(string(model.BookingStatusCancelled)))
	}

	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}

// BookingOrderBy порядок сортировки выборки
func BookingOrderBy(sort model.BookingSort) string {
	switch sort {
	case model.SortDateDescStartAsc:
		return " ORDER BY booking_date DESC, start_minute ASC, created_at ASC"
	case model.SortStartAsc:
		return " ORDER BY start_minute ASC, created_at ASC"
	case model.SortCreatedDesc:
		return " ORDER BY created_at DESC, id ASC"
	default:
		return ""
	}
}

// BookingSet строит SET по патчу; updated_at выставляется всегда
func BookingSet(args *Args, patch model.BookingPatch, dateValue func(model.Date) any) string {
	var sets []string

	if patch.FacilityID != nil {
		sets = append(sets, "facility_id = "+args.Add(*patch.FacilityID))
	}
	if patch.Date != nil {
		sets = append(sets, "booking_date = "+args.Add(dateValue(*patch.Date)))
	}
	if patch.StartTime != nil {
		sets = append(sets, "start_minute = "+args.Add(patch.StartTime.Minutes()))
	}
	if patch.EndTime != nil {
		sets = append(sets, "end_minute = "+args.Add(patch.EndTime.Minutes()))
	}
	if patch.TotalPrice != nil {
		sets = append(sets, "total_price = "+args.Add(*patch.TotalPrice))
	}
	if patch.Status != nil {
		sets = append(sets, "status = "+args.Add(string(*patch.Status)))
	}
	if patch.PaymentStatus != nil {
		sets = append(sets, "payment_status = "+args.Add(string(*patch.PaymentStatus)))
	}
	if patch.Notes != nil {
		sets = append(sets, "notes = "+args.Add(*patch.Notes))
	}
	sets = append(sets, "updated_at = "+args.Add(patch.UpdatedAt))

	return " SET " + strings.Join(sets, ", ")
}
