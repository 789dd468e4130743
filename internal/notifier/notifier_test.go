package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	args := m.Called(ctx, params)
	msg, _ := args.Get(0).(*models.Message)
	return msg, args.Error(1)
}

type recordingNotifier struct {
	events []model.BookingEvent
	err    error
}

func (r *recordingNotifier) Notify(_ context.Context, event model.BookingEvent) error {
	r.events = append(r.events, event)
	return r.err
}

func createdEvent() model.BookingEvent {
	return model.BookingEvent{
		Type: model.EventBookingCreated,
		Booking: &model.Booking{
			ID:     uuid.New(),
			Status: model.BookingStatusPending,
		},
	}
}

func TestTelegramSendsToEveryAdmin(t *testing.T) {
	sender := &mockSender{}
	ctx := context.Background()

	sender.On("SendMessage", ctx, mock.MatchedBy(func(p *bot.SendMessageParams) bool {
		return p.ChatID == int64(10) && p.ParseMode == models.ParseModeHTML
	})).Return(&models.Message{}, nil).Once()
	sender.On("SendMessage", ctx, mock.MatchedBy(func(p *bot.SendMessageParams) bool {
		return p.ChatID == int64(20)
	})).Return(nil, errors.New("blocked")).Once()

	err := NewTelegram(sender, []int64{10, 20}).Notify(ctx, createdEvent())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "send to 20")
	sender.AssertExpectations(t)
}

func TestTelegramWithoutAdmins(t *testing.T) {
	sender := &mockSender{}

	err := NewTelegram(sender, nil).Notify(context.Background(), createdEvent())

	require.NoError(t, err)
	sender.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

func TestMultiDeliversToAllAndJoinsErrors(t *testing.T) {
	first := &recordingNotifier{err: errors.New("rabbit down")}
	second := &recordingNotifier{}

	err := Multi{first, nil, second}.Notify(context.Background(), createdEvent())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rabbit down")
	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 1)
}
