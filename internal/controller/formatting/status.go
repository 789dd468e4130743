package formatting

import "github.com/Freeeeeet/sports_booking/internal/model"

// StatusDisplay представляет отображение статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

func (d StatusDisplay) String() string {
	return d.Emoji + " " + d.Text
}

var bookingStatusDisplays = map[model.BookingStatus]StatusDisplay{
	model.BookingStatusPending:   {"⏳", "Ожидает подтверждения"},
	model.BookingStatusConfirmed: {"✅", "Подтверждена"},
	model.BookingStatusCompleted: {"✔️", "Завершена"},
	model.BookingStatusCancelled: {"❌", "Отменена"},
}

var paymentStatusDisplays = map[model.PaymentStatus]StatusDisplay{
	model.PaymentStatusPending:  {"💳", "Не оплачена"},
	model.PaymentStatusPaid:     {"💰", "Оплачена"},
	model.PaymentStatusFailed:   {"⚠️", "Ошибка оплаты"},
	model.PaymentStatusRefunded: {"↩️", "Возврат"},
}

var sportDisplays = map[model.Sport]StatusDisplay{
	model.SportFootball:   {"⚽", "Футбол"},
	model.SportBasketball: {"🏀", "Баскетбол"},
	model.SportTennis:     {"🎾", "Теннис"},
	model.SportSwimming:   {"🏊", "Плавание"},
	model.SportGym:        {"🏋️", "Тренажёрный зал"},
}

// GetBookingStatusDisplay возвращает emoji и текст для статуса бронирования
func GetBookingStatusDisplay(status model.BookingStatus) StatusDisplay {
	if display, ok := bookingStatusDisplays[status]; ok {
		return display
	}
	return StatusDisplay{"❓", "Неизвестно"}
}

// GetPaymentStatusDisplay возвращает emoji и текст для статуса оплаты
func GetPaymentStatusDisplay(status model.PaymentStatus) StatusDisplay {
	if display, ok := paymentStatusDisplays[status]; ok {
		return display
	}
	return StatusDisplay{"❓", "Неизвестно"}
}

// GetSportDisplay возвращает emoji и название вида спорта
func GetSportDisplay(sport model.Sport) StatusDisplay {
	if display, ok := sportDisplays[sport]; ok {
		return display
	}
	return StatusDisplay{"🏟", string(sport)}
}
