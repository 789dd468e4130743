package service

import (
	"testing"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	owner := model.Actor{ID: 1, Role: model.RoleUser}
	stranger := model.Actor{ID: 2, Role: model.RoleUser}
	admin := model.Actor{ID: 3, Role: model.RoleAdmin}
	booking := &model.Booking{UserID: owner.ID}

	tests := []struct {
		name    string
		actor   model.Actor
		booking *model.Booking
		action  Action
		allowed bool
	}{
		{"owner views", owner, booking, ActionView, true},
		{"owner updates", owner, booking, ActionUpdate, true},
		{"owner cancels", owner, booking, ActionCancel, true},
		{"owner confirms", owner, booking, ActionConfirm, false},
		{"owner completes", owner, booking, ActionComplete, false},
		{"owner sets payment", owner, booking, ActionSetPayment, false},
		{"stranger views", stranger, booking, ActionView, false},
		{"stranger cancels", stranger, booking, ActionCancel, false},
		{"admin cancels", admin, booking, ActionCancel, true},
		{"admin confirms", admin, booking, ActionConfirm, true},
		{"admin lists all", admin, nil, ActionListAll, true},
		{"user lists all", owner, nil, ActionListAll, false},
		{"user manages facility", owner, nil, ActionManageFacility, false},
		{"anonymous views", model.Actor{}, booking, ActionView, false},
		{"unknown role admin-only", model.Actor{ID: 4, Role: "guest"}, booking, ActionConfirm, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, tt.booking, tt.action)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, model.ErrForbidden)
			}
		})
	}
}

func TestStatusAction(t *testing.T) {
	assert.Equal(t, ActionConfirm, statusAction(model.BookingStatusConfirmed))
	assert.Equal(t, ActionComplete, statusAction(model.BookingStatusCompleted))
	assert.Equal(t, ActionCancel, statusAction(model.BookingStatusCancelled))
	assert.Equal(t, ActionUpdate, statusAction(model.BookingStatusPending))
}
