package service

import (
	"fmt"

	"github.com/Freeeeeet/sports_booking/internal/model"
)

// Action действие над бронированием
type Action string

const (
	ActionView           Action = "view"
	ActionUpdate         Action = "update"
	ActionCancel         Action = "cancel"
	ActionConfirm        Action = "confirm"
	ActionComplete       Action = "complete"
	ActionSetPayment     Action = "set_payment"
	ActionListAll        Action = "list_all"
	ActionManageFacility Action = "manage_facility"
)

// adminOnly действия, которые владелец выполнить не может
var adminOnly = map[Action]bool{
	ActionConfirm:        true,
	ActionComplete:       true,
	ActionSetPayment:     true,
	ActionListAll:        true,
	ActionManageFacility: true,
}

// Authorize разрешает действие владельцу бронирования или администратору.
// booking может быть nil для действий, не привязанных к бронированию.
func Authorize(actor model.Actor, booking *model.Booking, action Action) error {
	if !actor.Authenticated() {
		return fmt.Errorf("%s: unauthenticated: %w", action, model.ErrForbidden)
	}

	if actor.IsAdmin() {
		return nil
	}

	if adminOnly[action] {
		return fmt.Errorf("%s requires administrator: %w", action, model.ErrForbidden)
	}

	if booking == nil || booking.UserID != actor.ID {
		return fmt.Errorf("%s booking: %w", action, model.ErrForbidden)
	}

	return nil
}

// RequireAuthenticated для просмотра справочника и создания бронирований
func RequireAuthenticated(actor model.Actor) error {
	if !actor.Authenticated() {
		return fmt.Errorf("unauthenticated: %w", model.ErrForbidden)
	}
	return nil
}

// statusAction какое право нужно для перехода в статус
func statusAction(target model.BookingStatus) Action {
	switch target {
	case model.BookingStatusConfirmed:
		return ActionConfirm
	case model.BookingStatusCompleted:
		return ActionComplete
	case model.BookingStatusCancelled:
		return ActionCancel
	default:
		return ActionUpdate
	}
}
