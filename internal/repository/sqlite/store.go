package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/Freeeeeet/sports_booking/internal/repository/base"
	"github.com/mattn/go-sqlite3"
)

// overlapMessage текст RAISE из триггеров bookings_no_overlap_*
const overlapMessage = "booking_overlap"

// DriverName имя драйвера database/sql
const DriverName = "sqlite3"

// DSN добавляет к пути параметры: внешние ключи, ожидание блокировки и immediate-транзакции
func DSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=1&_busy_timeout=5000&_txlock=immediate"
}

// Store общий доступ к базе SQLite для репозиториев
type Store struct {
	db      *sql.DB
	timeout time.Duration
}

func NewStore(db *sql.DB, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = base.DefaultTimeout
	}
	return &Store{db: db, timeout: timeout}
}

// DB возвращает соединение
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// classify переводит ошибку драйвера в доменную
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	if strings.Contains(err.Error(), overlapMessage) {
		return fmt.Errorf("%s: %w", op, model.ErrSlotUnavailable)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch {
		case sqliteErr.Code == sqlite3.ErrBusy,
			sqliteErr.Code == sqlite3.ErrLocked,
			sqliteErr.Code == sqlite3.ErrInterrupt:
			return model.NewTransientStoreError(op, err)
		// ON DELETE RESTRICT сообщает о нарушении кодом SQLITE_CONSTRAINT_TRIGGER
		case sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey,
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintTrigger:
			return fmt.Errorf("%s: %w: referenced record missing or still in use", op, model.ErrValidation)
		case sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique,
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%s: %w: record already exists", op, model.ErrValidation)
		case sqliteErr.ExtendedCode == sqlite3.ErrConstraintCheck:
			return fmt.Errorf("%s: %w: %v", op, model.ErrValidation, err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return model.NewTransientStoreError(op, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}

// sqliteDate представление дня для текстового столбца
func sqliteDate(d model.Date) any {
	return d.String()
}
