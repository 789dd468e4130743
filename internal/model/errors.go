package model

import (
	"errors"
	"fmt"
	"strings"
)

// Доменные ошибки движка бронирования
var (
	ErrSlotUnavailable   = errors.New("the selected time slot is already booked")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrValidation        = errors.New("validation failed")
)

// TransientStoreError временная ошибка хранилища, запрос можно повторить
type TransientStoreError struct {
	Op  string
	Err error
}

func (e *TransientStoreError) Error() string {
	return fmt.Sprintf("transient store error in %s: %v", e.Op, e.Err)
}

func (e *TransientStoreError) Unwrap() error {
	return e.Err
}

// NewTransientStoreError оборачивает ошибку драйвера
func NewTransientStoreError(op string, err error) error {
	return &TransientStoreError{Op: op, Err: err}
}

// IsTransient сообщает можно ли повторить операцию
func IsTransient(err error) bool {
	var transient *TransientStoreError
	return errors.As(err, &transient)
}

// UserMessage возвращает стабильное сообщение для конечного пользователя
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSlotUnavailable):
		return "❌ Это время уже занято. Выберите другой интервал."
	case errors.Is(err, ErrInvalidTransition):
		return "❌ Нельзя изменить бронирование в текущем статусе."
	case errors.Is(err, ErrNotFound):
		return "❌ Не найдено."
	case errors.Is(err, ErrForbidden):
		return "❌ Нет доступа."
	case errors.Is(err, ErrValidation):
		return "❌ Неверные данные: " + validationDetail(err)
	case IsTransient(err):
		return "⚠️ Сервис временно недоступен. Попробуйте позже."
	default:
		return "❌ Произошла ошибка"
	}
}

// validationDetail оставляет только текст после маркера ErrValidation
func validationDetail(err error) string {
	msg := err.Error()
	prefix := ErrValidation.Error() + ": "
	if idx := strings.Index(msg, prefix); idx >= 0 {
		return msg[idx+len(prefix):]
	}
	return msg
}
