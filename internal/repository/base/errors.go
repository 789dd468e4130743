package base

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
)

// Коды SQLSTATE, которые различает хранилище
const (
	codeExclusionViolation   = "23P01"
	codeForeignKeyViolation  = "23503"
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeQueryCanceled        = "57014"
	codeTooManyConnections   = "53300"
	codeCannotConnectNow     = "57P03"
)

// Classify переводит ошибку драйвера в доменную
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeExclusionViolation:
			return fmt.Errorf("%s: %w", op, model.ErrSlotUnavailable)
		case pgErr.Code == codeForeignKeyViolation:
			return fmt.Errorf("%s: %w: referenced record missing or still in use", op, model.ErrValidation)
		case pgErr.Code == codeUniqueViolation:
			return fmt.Errorf("%s: %w: record already exists", op, model.ErrValidation)
		case pgErr.Code == codeCheckViolation:
			return fmt.Errorf("%s: %w: %s", op, model.ErrValidation, pgErr.ConstraintName)
		case pgErr.Code == codeSerializationFailure,
			pgErr.Code == codeDeadlockDetected,
			pgErr.Code == codeQueryCanceled,
			pgErr.Code == codeTooManyConnections,
			pgErr.Code == codeCannotConnectNow,
			strings.HasPrefix(pgErr.Code, "08"):
			return model.NewTransientStoreError(op, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return model.NewTransientStoreError(op, err)
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return model.NewTransientStoreError(op, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}
