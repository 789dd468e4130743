package service

import (
	"context"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/google/uuid"
)

// BookingStore минимальный интерфейс хранилища бронирований.
// Insert и UpdateByID обязаны сами гарантировать отсутствие пересечений
// (ограничение в БД), возвращая model.ErrSlotUnavailable.
type BookingStore interface {
	Find(ctx context.Context, filter model.BookingFilter, sort model.BookingSort) ([]*model.Booking, error)
	FindOne(ctx context.Context, filter model.BookingFilter) (*model.Booking, error)
	Insert(ctx context.Context, booking *model.Booking) error
	UpdateByID(ctx context.Context, id uuid.UUID, patch model.BookingPatch) (*model.Booking, error)
}

// FacilityDirectory источник сведений о площадке при бронировании
type FacilityDirectory interface {
	GetByID(ctx context.Context, id int64) (*model.Facility, error)
}

// FacilityStore хранилище площадок
type FacilityStore interface {
	FacilityDirectory
	List(ctx context.Context) ([]*model.Facility, error)
	ListBySport(ctx context.Context, sport model.Sport) ([]*model.Facility, error)
	Create(ctx context.Context, facility *model.Facility) error
	Update(ctx context.Context, id int64, patch model.FacilityPatch) (*model.Facility, error)
	Delete(ctx context.Context, id int64) error
}

// DirectoryInvalidator сбрасывает закешированную площадку
type DirectoryInvalidator interface {
	Invalidate(ctx context.Context, id int64) error
}

// UserStore хранилище пользователей
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
}

// Notifier получает события после успешных изменений
type Notifier interface {
	Notify(ctx context.Context, event model.BookingEvent) error
}
