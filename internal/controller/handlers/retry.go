package handlers

import (
	"context"
	"time"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const (
	retryBaseDelay  = 100 * time.Millisecond
	retryMaxRetries = 2 // всего три попытки
)

func defaultBackoff() retry.Backoff {
	return retry.WithMaxRetries(retryMaxRetries, retry.NewExponential(retryBaseDelay))
}

// withRetry повторяет операцию при временных ошибках хранилища
func withRetry[T any](ctx context.Context, h *Handlers, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	attempt := 0

	err := retry.Do(ctx, h.backoff(), func(ctx context.Context) error {
		attempt++
		value, err := fn(ctx)
		if err != nil {
			if model.IsTransient(err) {
				h.logger.Warn("Transient store error, retrying",
					zap.String("op", op),
					zap.Int("attempt", attempt),
					zap.Error(err))
				return retry.RetryableError(err)
			}
			return err
		}
		result = value
		return nil
	})

	return result, err
}

// withRetryErr вариант для операций без результата
func withRetryErr(ctx context.Context, h *Handlers, op string, fn func(ctx context.Context) error) error {
	_, err := withRetry(ctx, h, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
