package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/Freeeeeet/sports_booking/internal/service"
	"github.com/Freeeeeet/sports_booking/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByUserOrdering(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	later := model.Date{Year: 2030, Month: time.May, Day: 20}
	e.mustBook(t, e.owner, "18:00", "19:00")
	e.mustBook(t, e.owner, "07:00", "08:00")
	_, err := e.bookings.CreateBooking(ctx, e.owner, service.CreateBookingInput{
		FacilityID: e.court.ID,
		Date:       later,
		StartTime:  model.MustClock("12:00"),
		EndTime:    model.MustClock("13:00"),
	})
	require.NoError(t, err)
	e.mustBook(t, e.other, "10:00", "11:00")

	bookings, err := e.queries.ByUser(ctx, e.owner, e.owner.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 3)

	assert.Equal(t, later, bookings[0].Date)
	assert.Equal(t, model.MustClock("07:00"), bookings[1].StartTime)
	assert.Equal(t, model.MustClock("18:00"), bookings[2].StartTime)
	for _, b := range bookings {
		assert.Equal(t, e.owner.ID, b.UserID)
		require.NotNil(t, b.Facility)
	}
}

func TestByUserAuthorization(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	e.mustBook(t, e.owner, "09:00", "10:00")

	_, err := e.queries.ByUser(ctx, e.other, e.owner.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)

	bookings, err := e.queries.ByUser(ctx, e.admin, e.owner.ID)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestByFacilityAndDateFeed(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	_, err := e.bookings.CreateBooking(ctx, e.owner, service.CreateBookingInput{
		FacilityID: e.court.ID,
		Date:       bookingDay,
		StartTime:  model.MustClock("14:00"),
		EndTime:    model.MustClock("15:00"),
		Notes:      "private",
	})
	require.NoError(t, err)
	e.mustBook(t, e.other, "08:00", "09:00")
	cancelled := e.mustBook(t, e.other, "10:00", "11:00")
	_, err = e.bookings.Cancel(ctx, e.other, cancelled.ID)
	require.NoError(t, err)

	feed, err := e.queries.ByFacilityAndDate(ctx, e.other, e.court.ID, bookingDay)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	assert.Equal(t, model.MustClock("08:00"), feed[0].StartTime)
	assert.Equal(t, model.MustClock("14:00"), feed[1].StartTime)
	for i := 1; i < len(feed); i++ {
		assert.False(t, feed[i-1].Interval().Overlaps(feed[i].Interval()))
	}

	// Чужие заметки и имена скрыты от обычного пользователя
	assert.Empty(t, feed[1].Notes)
	assert.Nil(t, feed[1].User)
	assert.Zero(t, feed[1].UserID)
	assert.Equal(t, e.other.ID, feed[0].UserID)

	adminFeed, err := e.queries.ByFacilityAndDate(ctx, e.admin, e.court.ID, bookingDay)
	require.NoError(t, err)
	require.Len(t, adminFeed, 2)
	assert.Equal(t, "private", adminFeed[1].Notes)
	assert.Equal(t, e.owner.ID, adminFeed[1].UserID)
	require.NotNil(t, adminFeed[1].User)
	assert.Equal(t, "user", adminFeed[1].User.Name)

	_, err = e.queries.ByFacilityAndDate(ctx, model.Actor{}, e.court.ID, bookingDay)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestAllIsAdminOnly(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	first := e.mustBook(t, e.owner, "09:00", "10:00")

	pool := testutil.CreateFacility(t, e.stores, "Pool", model.SportSwimming, 50000)
	second, err := e.bookings.CreateBooking(ctx, e.other, service.CreateBookingInput{
		FacilityID: pool.ID,
		Date:       bookingDay,
		StartTime:  model.MustClock("09:00"),
		EndTime:    model.MustClock("10:00"),
	})
	require.NoError(t, err)

	_, err = e.queries.All(ctx, e.owner)
	assert.ErrorIs(t, err, model.ErrForbidden)

	all, err := e.queries.All(ctx, e.admin)
	require.NoError(t, err)
	require.Len(t, all, 2)

	ids := []string{all[0].ID.String(), all[1].ID.String()}
	assert.ElementsMatch(t, []string{first.ID.String(), second.ID.String()}, ids)
}

func TestByIDPrefixScopesToOwner(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	own := e.mustBook(t, e.owner, "09:00", "10:00")
	foreign := e.mustBook(t, e.other, "10:00", "11:00")

	found, err := e.queries.ByIDPrefix(ctx, e.owner, own.ShortID())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, own.ID, found[0].ID)
	assert.Nil(t, found[0].Facility)

	hidden, err := e.queries.ByIDPrefix(ctx, e.owner, foreign.ShortID())
	require.NoError(t, err)
	assert.Empty(t, hidden)

	seen, err := e.queries.ByIDPrefix(ctx, e.admin, strings.ToUpper(foreign.ShortID()))
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, foreign.ID, seen[0].ID)

	_, err = e.queries.ByIDPrefix(ctx, e.owner, "50%")
	assert.ErrorIs(t, err, model.ErrValidation)
}
