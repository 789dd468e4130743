package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/Freeeeeet/sports_booking/internal/service"
	"github.com/Freeeeeet/sports_booking/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingInvalidator struct {
	ids []int64
}

func (r *recordingInvalidator) Invalidate(_ context.Context, id int64) error {
	r.ids = append(r.ids, id)
	return nil
}

func TestFacilityDirectoryAdminCRUD(t *testing.T) {
	stores := testutil.NewTestDB(t)
	ctx := context.Background()
	invalidator := &recordingInvalidator{}
	facilities := service.NewFacilityService(stores.Facilities, nil, invalidator, zap.NewNop())

	admin := model.ActorOf(testutil.CreateUser(t, stores, 1, model.RoleAdmin))
	user := model.ActorOf(testutil.CreateUser(t, stores, 2, model.RoleUser))

	_, err := facilities.Create(ctx, user, &model.Facility{Name: "Pitch", Sport: model.SportFootball, Price: 1000})
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = facilities.Create(ctx, admin, &model.Facility{Name: "  ", Sport: model.SportFootball})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = facilities.Create(ctx, admin, &model.Facility{Name: "Pitch", Sport: "curling"})
	assert.ErrorIs(t, err, model.ErrValidation)

	pitch, err := facilities.Create(ctx, admin, &model.Facility{
		Name:      " Pitch ",
		Sport:     model.SportFootball,
		Price:     300000,
		Capacity:  "22 players",
		Available: true,
		Features:  []string{"lighting", "changing rooms"},
	})
	require.NoError(t, err)
	assert.NotZero(t, pitch.ID)
	assert.Equal(t, "Pitch", pitch.Name)

	got, err := facilities.Get(ctx, user, pitch.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"lighting", "changing rooms"}, got.Features)

	_, err = facilities.Get(ctx, user, 999)
	assert.ErrorIs(t, err, model.ErrNotFound)

	updated, err := facilities.SetPrice(ctx, admin, pitch.ID, 350000)
	require.NoError(t, err)
	assert.Equal(t, 350000, updated.Price)

	_, err = facilities.SetPrice(ctx, admin, pitch.ID, -1)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = facilities.SetAvailable(ctx, user, pitch.ID, false)
	assert.ErrorIs(t, err, model.ErrForbidden)

	closed, err := facilities.SetAvailable(ctx, admin, pitch.ID, false)
	require.NoError(t, err)
	assert.False(t, closed.Available)

	_, err = facilities.Update(ctx, admin, pitch.ID, model.FacilityPatch{})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = facilities.SetPrice(ctx, admin, 999, 100)
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, facilities.Delete(ctx, admin, pitch.ID))
	assert.ErrorIs(t, facilities.Delete(ctx, admin, pitch.ID), model.ErrNotFound)

	assert.Equal(t, []int64{pitch.ID, pitch.ID, pitch.ID}, invalidator.ids)
}

func TestFacilityListBySport(t *testing.T) {
	stores := testutil.NewTestDB(t)
	ctx := context.Background()
	facilities := service.NewFacilityService(stores.Facilities, nil, nil, zap.NewNop())
	user := model.ActorOf(testutil.CreateUser(t, stores, 1, model.RoleUser))

	testutil.CreateFacility(t, stores, "Court A", model.SportTennis, 100000)
	testutil.CreateFacility(t, stores, "Court B", model.SportTennis, 110000)
	testutil.CreateFacility(t, stores, "Pool", model.SportSwimming, 50000)

	all, err := facilities.List(ctx, user)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	tennis, err := facilities.ListBySport(ctx, user, model.SportTennis)
	require.NoError(t, err)
	require.Len(t, tennis, 2)
	for _, f := range tennis {
		assert.Equal(t, model.SportTennis, f.Sport)
	}

	_, err = facilities.ListBySport(ctx, user, "curling")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = facilities.List(ctx, model.Actor{})
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestFacilityWithBookingsCannotBeDeleted(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	facilities := service.NewFacilityService(e.stores.Facilities, nil, nil, zap.NewNop())

	e.mustBook(t, e.owner, "09:00", "10:00")

	err := facilities.Delete(ctx, e.admin, e.court.ID)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, "❌ Неверные данные: referenced record missing or still in use", model.UserMessage(err))

	got, err := facilities.Get(ctx, e.admin, e.court.ID)
	require.NoError(t, err)
	assert.Equal(t, e.court.ID, got.ID)
}

func TestUserRegistration(t *testing.T) {
	stores := testutil.NewTestDB(t)
	ctx := context.Background()
	users := service.NewUserService(stores.Users, []int64{42}, zap.NewNop())

	player, err := users.Register(ctx, 7, " Ivan ")
	require.NoError(t, err)
	assert.Equal(t, "Ivan", player.Name)
	assert.Equal(t, model.RoleUser, player.Role)

	admin, err := users.Register(ctx, 42, "Olga")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.True(t, users.IsAdminTelegramID(42))
	assert.False(t, users.IsAdminTelegramID(7))

	renamed, err := users.Register(ctx, 7, "Ivan Petrov")
	require.NoError(t, err)
	assert.Equal(t, player.ID, renamed.ID)
	assert.Equal(t, "Ivan Petrov", renamed.Name)

	got, err := users.GetByTelegramID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Ivan Petrov", got.Name)

	byID, err := users.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), byID.TelegramID)

	_, err = users.GetByTelegramID(ctx, 999)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = users.Register(ctx, 0, "nobody")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestConflictDetector(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	detector := service.NewConflictDetector(e.stores.Bookings)
	booking := e.mustBook(t, e.owner, "09:00", "10:00")

	iv := model.Interval{Start: model.MustClock("09:30"), End: model.MustClock("10:30")}
	conflict, err := detector.HasConflict(ctx, e.court.ID, bookingDay, iv, nil)
	require.NoError(t, err)
	assert.True(t, conflict)

	conflict, err = detector.HasConflict(ctx, e.court.ID, bookingDay, iv, &booking.ID)
	require.NoError(t, err)
	assert.False(t, conflict)

	nextDay := model.Date{Year: 2030, Month: time.May, Day: 13}
	conflict, err = detector.HasConflict(ctx, e.court.ID, nextDay, iv, nil)
	require.NoError(t, err)
	assert.False(t, conflict)

	conflicts, err := detector.Conflicts(ctx, e.court.ID, bookingDay, iv, nil)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, booking.ID, conflicts[0].ID)

	assert.ErrorIs(t, detector.Check(ctx, e.court.ID, bookingDay, iv, nil), model.ErrSlotUnavailable)
}
