package service

import (
	"context"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"go.uber.org/zap"
)

// projector дополняет бронирования сведениями о площадке и владельце для отображения
type projector struct {
	facilities FacilityDirectory
	users      UserStore
	logger     *zap.Logger
}

// populate заполняет Facility и User; ошибки чтения проекций не ломают ответ
func (p *projector) populate(ctx context.Context, withUsers bool, bookings ...*model.Booking) {
	facilities := make(map[int64]*model.Facility)
	users := make(map[int64]*model.User)

	for _, booking := range bookings {
		facility, ok := facilities[booking.FacilityID]
		if !ok {
			var err error
			facility, err = p.facilities.GetByID(ctx, booking.FacilityID)
			if err != nil {
				p.logger.Warn("Failed to load facility projection",
					zap.Int64("facility_id", booking.FacilityID),
					zap.Error(err),
				)
			}
			facilities[booking.FacilityID] = facility
		}
		if facility != nil {
			booking.Facility = &model.Facility{
				ID:        facility.ID,
				Name:      facility.Name,
				Sport:     facility.Sport,
				Price:     facility.Price,
				Available: facility.Available,
			}
		}

		if !withUsers || p.users == nil {
			continue
		}

		user, ok := users[booking.UserID]
		if !ok {
			var err error
			user, err = p.users.GetByID(ctx, booking.UserID)
			if err != nil {
				p.logger.Warn("Failed to load user projection",
					zap.Int64("user_id", booking.UserID),
					zap.Error(err),
				)
			}
			users[booking.UserID] = user
		}
		if user != nil {
			booking.User = &model.User{ID: user.ID, Name: user.Name}
		}
	}
}
