package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fastRetryHandlers() *Handlers {
	return &Handlers{
		logger: zap.NewNop(),
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(retryMaxRetries, retry.NewConstant(time.Millisecond))
		},
	}
}

func TestWithRetryRecoversFromTransientError(t *testing.T) {
	h := fastRetryHandlers()
	calls := 0

	got, err := withRetry(context.Background(), h, "test", func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, model.NewTransientStoreError("find", errors.New("database is locked"))
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
}

func TestWithRetryGivesUpAfterThreeAttempts(t *testing.T) {
	h := fastRetryHandlers()
	calls := 0

	_, err := withRetry(context.Background(), h, "test", func(ctx context.Context) (int, error) {
		calls++
		return 0, model.NewTransientStoreError("insert", errors.New("timeout"))
	})

	assert.True(t, model.IsTransient(err))
	assert.Equal(t, 3, calls)
}

func TestWithRetryDoesNotRepeatDomainErrors(t *testing.T) {
	h := fastRetryHandlers()
	calls := 0

	err := withRetryErr(context.Background(), h, "test", func(ctx context.Context) error {
		calls++
		return model.ErrSlotUnavailable
	})

	assert.ErrorIs(t, err, model.ErrSlotUnavailable)
	assert.Equal(t, 1, calls)
}
