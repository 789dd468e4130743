package notifier

import (
	"context"
	"errors"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/Freeeeeet/sports_booking/internal/service"
)

// Multi рассылает событие всем получателям; ошибки собираются вместе
type Multi []service.Notifier

func (m Multi) Notify(ctx context.Context, event model.BookingEvent) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
