package model

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID            uuid.UUID     `json:"id"`
	UserID        int64         `json:"user_id"`
	FacilityID    int64         `json:"facility_id"`
	Date          Date          `json:"date"`
	StartTime     Clock         `json:"start_time"`
	EndTime       Clock         `json:"end_time"`
	TotalPrice    int           `json:"total_price"` // фиксируется при создании
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Notes         string        `json:"notes"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Проекции для отображения (не из таблицы bookings)
	Facility *Facility `json:"facility,omitempty"`
	User     *User     `json:"user,omitempty"`
}

func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// ShortID первые 8 символов идентификатора
func (b *Booking) ShortID() string {
	return b.ID.String()[:8]
}

// Blocking сообщает занимает ли бронирование слот
func (b *Booking) Blocking() bool {
	return b.Status != BookingStatusCancelled
}

// TotalPriceFor считает стоимость: цена за час * длительность, с округлением вверх от половины
func TotalPriceFor(hourlyPrice int, iv Interval) int {
	minutes := iv.Minutes()
	return (hourlyPrice*minutes + 30) / 60
}

// RescalePrice переносит зафиксированную цену на интервал другой длины по той же ставке
func RescalePrice(total int, from, to Interval) int {
	fromMinutes := from.Minutes()
	if fromMinutes <= 0 {
		return total
	}
	return (total*to.Minutes() + fromMinutes/2) / fromMinutes
}

// BookingChanges изменения полей от владельца или администратора; nil означает "не менять"
type BookingChanges struct {
	FacilityID *int64
	Date       *Date
	StartTime  *Clock
	EndTime    *Clock
	Notes      *string
}

func (c BookingChanges) IsEmpty() bool {
	return c.FacilityID == nil && c.Date == nil && c.StartTime == nil && c.EndTime == nil && c.Notes == nil
}

// TouchesSlot сообщает меняется ли площадка, дата или время
func (c BookingChanges) TouchesSlot() bool {
	return c.FacilityID != nil || c.Date != nil || c.StartTime != nil || c.EndTime != nil
}

// BookingPatch изменения на уровне хранилища
type BookingPatch struct {
	FacilityID    *int64
	Date          *Date
	StartTime     *Clock
	EndTime       *Clock
	TotalPrice    *int
	Status        *BookingStatus
	PaymentStatus *PaymentStatus
	Notes         *string
	UpdatedAt     time.Time

	// IfStatus условие оптимистичной блокировки: обновлять только если статус не изменился
	IfStatus *BookingStatus
}

// BookingFilter условия выборки; нулевые поля не участвуют
type BookingFilter struct {
	ID               *uuid.UUID
	IDPrefix         string // начало текстового UUID в нижнем регистре
	UserID           *int64
	FacilityID       *int64
	Date             *Date
	ExcludeID        *uuid.UUID
	ExcludeCancelled bool
}

type BookingSort int

const (
	SortNone BookingSort = iota
	// SortDateDescStartAsc дата по убыванию, затем начало по возрастанию
	SortDateDescStartAsc
	// SortStartAsc начало по возрастанию
	SortStartAsc
	// SortCreatedDesc сначала новые
	SortCreatedDesc
)
