package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/sports_booking/internal/app"
	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/Freeeeeet/sports_booking/internal/service"
	"github.com/Freeeeeet/sports_booking/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var bookingDay = model.Date{Year: 2030, Month: time.May, Day: 12}

type recordingNotifier struct {
	mu     sync.Mutex
	events []model.BookingEvent
	err    error
}

func (r *recordingNotifier) Notify(_ context.Context, event model.BookingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingNotifier) types() []model.BookingEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]model.BookingEventType, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

type engine struct {
	stores   *app.Stores
	bookings *service.BookingService
	queries  *service.QueryService
	notifier *recordingNotifier
	owner    model.Actor
	other    model.Actor
	admin    model.Actor
	court    *model.Facility
}

func newEngine(t *testing.T) *engine {
	t.Helper()

	stores := testutil.NewTestDB(t)
	notifier := &recordingNotifier{}
	logger := zap.NewNop()

	e := &engine{
		stores:   stores,
		notifier: notifier,
		bookings: service.NewBookingService(stores.Bookings, stores.Facilities, stores.Users, logger,
			service.WithNotifier(notifier),
			service.WithClock(func() time.Time { return time.Date(2030, time.May, 1, 12, 0, 0, 0, time.UTC) }),
		),
		queries: service.NewQueryService(stores.Bookings, stores.Facilities, stores.Users, logger),
	}

	e.owner = model.ActorOf(testutil.CreateUser(t, stores, 101, model.RoleUser))
	e.other = model.ActorOf(testutil.CreateUser(t, stores, 102, model.RoleUser))
	e.admin = model.ActorOf(testutil.CreateUser(t, stores, 103, model.RoleAdmin))
	e.court = testutil.CreateFacility(t, stores, "Court 1", model.SportTennis, 120000)

	return e
}

func (e *engine) book(actor model.Actor, start, end string) (*model.Booking, error) {
	return e.bookings.CreateBooking(context.Background(), actor, service.CreateBookingInput{
		FacilityID: e.court.ID,
		Date:       bookingDay,
		StartTime:  model.MustClock(start),
		EndTime:    model.MustClock(end),
	})
}

func (e *engine) mustBook(t *testing.T, actor model.Actor, start, end string) *model.Booking {
	t.Helper()
	booking, err := e.book(actor, start, end)
	require.NoError(t, err)
	return booking
}

func TestCreateBookingDefaults(t *testing.T) {
	e := newEngine(t)

	booking, err := e.bookings.CreateBooking(context.Background(), e.owner, service.CreateBookingInput{
		FacilityID: e.court.ID,
		Date:       bookingDay,
		StartTime:  model.MustClock("09:00"),
		EndTime:    model.MustClock("10:30"),
		Notes:      "  doubles  ",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, booking.ID)
	assert.Equal(t, e.owner.ID, booking.UserID)
	assert.Equal(t, model.BookingStatusPending, booking.Status)
	assert.Equal(t, model.PaymentStatusPending, booking.PaymentStatus)
	assert.Equal(t, 180000, booking.TotalPrice)
	assert.Equal(t, "doubles", booking.Notes)
	require.NotNil(t, booking.Facility)
	assert.Equal(t, "Court 1", booking.Facility.Name)

	assert.Equal(t, []model.BookingEventType{model.EventBookingCreated}, e.notifier.types())
}

func TestCreateBookingConflicts(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantErr    error
	}{
		{"adjacent before", "08:00", "09:00", nil},
		{"adjacent after", "10:00", "11:00", nil},
		{"same interval", "09:00", "10:00", model.ErrSlotUnavailable},
		{"contained", "09:15", "09:45", model.ErrSlotUnavailable},
		{"containing", "08:30", "10:30", model.ErrSlotUnavailable},
		{"overlaps start", "08:30", "09:30", model.ErrSlotUnavailable},
		{"overlaps end", "09:30", "10:30", model.ErrSlotUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t)
			e.mustBook(t, e.owner, "09:00", "10:00")

			_, err := e.book(e.other, tt.start, tt.end)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCreateBookingOtherFacilityOrDayDoesNotConflict(t *testing.T) {
	e := newEngine(t)
	e.mustBook(t, e.owner, "09:00", "10:00")

	pool := testutil.CreateFacility(t, e.stores, "Pool", model.SportSwimming, 50000)
	_, err := e.bookings.CreateBooking(context.Background(), e.other, service.CreateBookingInput{
		FacilityID: pool.ID,
		Date:       bookingDay,
		StartTime:  model.MustClock("09:00"),
		EndTime:    model.MustClock("10:00"),
	})
	assert.NoError(t, err)

	_, err = e.bookings.CreateBooking(context.Background(), e.other, service.CreateBookingInput{
		FacilityID: e.court.ID,
		Date:       model.Date{Year: 2030, Month: time.May, Day: 13},
		StartTime:  model.MustClock("09:00"),
		EndTime:    model.MustClock("10:00"),
	})
	assert.NoError(t, err)
}

func TestCreateBookingValidation(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   model.Actor
		input   service.CreateBookingInput
		wantErr error
	}{
		{
			name:    "anonymous",
			actor:   model.Actor{},
			input:   service.CreateBookingInput{FacilityID: e.court.ID, Date: bookingDay, StartTime: 540, EndTime: 600},
			wantErr: model.ErrForbidden,
		},
		{
			name:    "missing date",
			actor:   e.owner,
			input:   service.CreateBookingInput{FacilityID: e.court.ID, StartTime: 540, EndTime: 600},
			wantErr: model.ErrValidation,
		},
		{
			name:    "end before start",
			actor:   e.owner,
			input:   service.CreateBookingInput{FacilityID: e.court.ID, Date: bookingDay, StartTime: 600, EndTime: 540},
			wantErr: model.ErrValidation,
		},
		{
			name:    "empty interval",
			actor:   e.owner,
			input:   service.CreateBookingInput{FacilityID: e.court.ID, Date: bookingDay, StartTime: 600, EndTime: 600},
			wantErr: model.ErrValidation,
		},
		{
			name:    "unknown facility",
			actor:   e.owner,
			input:   service.CreateBookingInput{FacilityID: 999, Date: bookingDay, StartTime: 540, EndTime: 600},
			wantErr: model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.bookings.CreateBooking(ctx, tt.actor, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, e.notifier.types())
}

func TestCreateBookingRejectsUnavailableFacility(t *testing.T) {
	e := newEngine(t)
	closed := false
	_, err := e.stores.Facilities.Update(context.Background(), e.court.ID, model.FacilityPatch{Available: &closed})
	require.NoError(t, err)

	_, err = e.book(e.owner, "09:00", "10:00")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestStoreRejectsOverlapWhenDetectorIsBypassed(t *testing.T) {
	e := newEngine(t)
	first := e.mustBook(t, e.owner, "09:00", "10:00")

	now := time.Now()
	racing := &model.Booking{
		ID:            uuid.New(),
		UserID:        e.other.ID,
		FacilityID:    e.court.ID,
		Date:          bookingDay,
		StartTime:     model.MustClock("09:30"),
		EndTime:       model.MustClock("11:00"),
		TotalPrice:    180000,
		Status:        model.BookingStatusPending,
		PaymentStatus: model.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := e.stores.Bookings.Insert(context.Background(), racing)
	assert.ErrorIs(t, err, model.ErrSlotUnavailable)

	// После отмены та же вставка проходит
	_, err = e.bookings.Cancel(context.Background(), e.owner, first.ID)
	require.NoError(t, err)
	assert.NoError(t, e.stores.Bookings.Insert(context.Background(), racing))
}

func TestConcurrentCreatesProduceSingleWinner(t *testing.T) {
	e := newEngine(t)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.book(e.owner, "18:00", "19:30")
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.True(t, errors.Is(err, model.ErrSlotUnavailable) || model.IsTransient(err), err)
	}
	assert.Equal(t, 1, created)
}

func TestCancelFreesSlotAndIsIdempotent(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	booking := e.mustBook(t, e.owner, "09:00", "10:00")

	cancelled, err := e.bookings.Cancel(ctx, e.owner, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, cancelled.Status)

	again, err := e.bookings.Cancel(ctx, e.owner, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, again.Status)

	// Повторная отмена не порождает событие
	assert.Equal(t, []model.BookingEventType{
		model.EventBookingCreated,
		model.EventBookingStatusChanged,
	}, e.notifier.types())

	_, err = e.book(e.other, "09:00", "10:00")
	assert.NoError(t, err)
}

// interleavingStore выполняет before один раз между чтением брони и её обновлением
type interleavingStore struct {
	service.BookingStore
	once   sync.Once
	before func()
}

func (s *interleavingStore) FindOne(ctx context.Context, filter model.BookingFilter) (*model.Booking, error) {
	booking, err := s.BookingStore.FindOne(ctx, filter)
	s.once.Do(s.before)
	return booking, err
}

func TestConcurrentCancelIsIdempotent(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	booking := e.mustBook(t, e.owner, "09:00", "10:00")

	store := &interleavingStore{BookingStore: e.stores.Bookings}
	store.before = func() {
		_, err := e.bookings.Cancel(ctx, e.admin, booking.ID)
		require.NoError(t, err)
	}
	racing := service.NewBookingService(store, e.stores.Facilities, e.stores.Users, zap.NewNop(),
		service.WithNotifier(e.notifier),
	)

	cancelled, err := racing.Cancel(ctx, e.owner, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, cancelled.Status)

	// Событие только от выигравшей отмены
	assert.Equal(t, []model.BookingEventType{
		model.EventBookingCreated,
		model.EventBookingStatusChanged,
	}, e.notifier.types())
}

func TestConcurrentConfirmLoserGetsInvalidTransition(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	booking := e.mustBook(t, e.owner, "09:00", "10:00")

	store := &interleavingStore{BookingStore: e.stores.Bookings}
	store.before = func() {
		_, err := e.bookings.Cancel(ctx, e.owner, booking.ID)
		require.NoError(t, err)
	}
	racing := service.NewBookingService(store, e.stores.Facilities, e.stores.Users, zap.NewNop())

	_, err := racing.Confirm(ctx, e.admin, booking.ID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestLifecycleTransitions(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	booking := e.mustBook(t, e.owner, "09:00", "10:00")

	_, err := e.bookings.Complete(ctx, e.admin, booking.ID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	confirmed, err := e.bookings.Confirm(ctx, e.admin, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, confirmed.Status)

	_, err = e.bookings.Confirm(ctx, e.admin, booking.ID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	completed, err := e.bookings.Complete(ctx, e.admin, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCompleted, completed.Status)

	_, err = e.bookings.Cancel(ctx, e.owner, booking.ID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	_, err = e.bookings.SetStatus(ctx, e.admin, booking.ID, model.BookingStatus("archived"))
	assert.ErrorIs(t, err, model.ErrValidation)

	last := e.notifier.events[len(e.notifier.events)-1]
	assert.Equal(t, model.EventBookingStatusChanged, last.Type)
	assert.Equal(t, model.BookingStatusConfirmed, last.PrevStatus)
	assert.Equal(t, e.admin.ID, last.Actor.ID)
}

func TestAuthorizationOnBookingOperations(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	booking := e.mustBook(t, e.owner, "09:00", "10:00")

	_, err := e.bookings.Get(ctx, e.other, booking.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = e.bookings.Cancel(ctx, e.other, booking.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = e.bookings.Confirm(ctx, e.owner, booking.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = e.bookings.SetPaymentStatus(ctx, e.owner, booking.ID, model.PaymentStatusPaid)
	assert.ErrorIs(t, err, model.ErrForbidden)

	notes := "mine now"
	_, err = e.bookings.UpdateFields(ctx, e.other, booking.ID, model.BookingChanges{Notes: &notes})
	assert.ErrorIs(t, err, model.ErrForbidden)

	got, err := e.bookings.Get(ctx, e.admin, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)

	_, err = e.bookings.Cancel(ctx, e.admin, booking.ID)
	assert.NoError(t, err)

	_, err = e.bookings.Get(ctx, e.owner, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPriceIsFrozenAtCreation(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	booking := e.mustBook(t, e.owner, "09:00", "10:00")
	require.Equal(t, 120000, booking.TotalPrice)

	price := 200000
	_, err := e.stores.Facilities.Update(ctx, e.court.ID, model.FacilityPatch{Price: &price})
	require.NoError(t, err)

	got, err := e.bookings.Get(ctx, e.owner, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 120000, got.TotalPrice)

	// Изменение заметки не пересчитывает цену
	notes := "late arrival"
	updated, err := e.bookings.UpdateFields(ctx, e.owner, booking.ID, model.BookingChanges{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, 120000, updated.TotalPrice)
	assert.Equal(t, "late arrival", updated.Notes)
}

func TestPaymentStatusIsIndependentOfLifecycle(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	booking := e.mustBook(t, e.owner, "09:00", "10:00")

	paid, err := e.bookings.SetPaymentStatus(ctx, e.admin, booking.ID, model.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, paid.PaymentStatus)
	assert.Equal(t, model.BookingStatusPending, paid.Status)

	cancelled, err := e.bookings.Cancel(ctx, e.owner, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, cancelled.PaymentStatus)

	refunded, err := e.bookings.SetPaymentStatus(ctx, e.admin, booking.ID, model.PaymentStatusRefunded)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusRefunded, refunded.PaymentStatus)
	assert.Equal(t, model.BookingStatusCancelled, refunded.Status)

	_, err = e.bookings.SetPaymentStatus(ctx, e.admin, booking.ID, model.PaymentStatus("bitcoin"))
	assert.ErrorIs(t, err, model.ErrValidation)

	assert.Contains(t, e.notifier.types(), model.EventBookingPaymentChanged)

	var payments []model.BookingEvent
	for _, event := range e.notifier.events {
		if event.Type == model.EventBookingPaymentChanged {
			payments = append(payments, event)
		}
	}
	require.Len(t, payments, 2)
	assert.Equal(t, model.PaymentStatusPending, payments[0].PrevPaymentStatus)
	assert.Equal(t, model.PaymentStatusPaid, payments[1].PrevPaymentStatus)
	assert.Empty(t, payments[1].PrevStatus)
}

func TestUpdateFieldsRechecksConflictsAndReprices(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	e.mustBook(t, e.other, "10:00", "11:00")
	booking := e.mustBook(t, e.owner, "09:00", "10:00")

	start, end := model.MustClock("09:30"), model.MustClock("10:30")
	_, err := e.bookings.UpdateFields(ctx, e.owner, booking.ID, model.BookingChanges{StartTime: &start, EndTime: &end})
	assert.ErrorIs(t, err, model.ErrSlotUnavailable)

	// Сдвиг внутри своего же интервала не конфликтует сам с собой
	start = model.MustClock("08:00")
	updated, err := e.bookings.UpdateFields(ctx, e.owner, booking.ID, model.BookingChanges{StartTime: &start})
	require.NoError(t, err)
	assert.Equal(t, model.MustClock("08:00"), updated.StartTime)
	assert.Equal(t, model.MustClock("10:00"), updated.EndTime)
	assert.Equal(t, 240000, updated.TotalPrice)

	// Перенос на той же площадке сохраняет ставку брони, даже если цена площадки выросла
	price := 300000
	_, err = e.stores.Facilities.Update(ctx, e.court.ID, model.FacilityPatch{Price: &price})
	require.NoError(t, err)

	nextDay := model.Date{Year: 2030, Month: time.May, Day: 13}
	start, end = model.MustClock("18:00"), model.MustClock("19:30")
	rescheduled, err := e.bookings.UpdateFields(ctx, e.owner, booking.ID, model.BookingChanges{
		Date:      &nextDay,
		StartTime: &start,
		EndTime:   &end,
	})
	require.NoError(t, err)
	assert.Equal(t, nextDay, rescheduled.Date)
	assert.Equal(t, 180000, rescheduled.TotalPrice)

	gym := testutil.CreateFacility(t, e.stores, "Gym", model.SportGym, 30000)
	moved, err := e.bookings.UpdateFields(ctx, e.owner, booking.ID, model.BookingChanges{FacilityID: &gym.ID})
	require.NoError(t, err)
	assert.Equal(t, gym.ID, moved.FacilityID)
	assert.Equal(t, 45000, moved.TotalPrice)

	_, err = e.bookings.UpdateFields(ctx, e.owner, booking.ID, model.BookingChanges{})
	assert.ErrorIs(t, err, model.ErrValidation)

	assert.Contains(t, e.notifier.types(), model.EventBookingUpdated)
}

func TestUpdateFieldsRejectsTerminalBookings(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	booking := e.mustBook(t, e.owner, "09:00", "10:00")

	_, err := e.bookings.Cancel(ctx, e.owner, booking.ID)
	require.NoError(t, err)

	notes := "too late"
	_, err = e.bookings.UpdateFields(ctx, e.owner, booking.ID, model.BookingChanges{Notes: &notes})
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestNotifierFailureDoesNotFailOperation(t *testing.T) {
	e := newEngine(t)
	e.notifier.err = errors.New("broker down")

	_, err := e.book(e.owner, "09:00", "10:00")
	assert.NoError(t, err)
	assert.Len(t, e.notifier.types(), 1)
}
