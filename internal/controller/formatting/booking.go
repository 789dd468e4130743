package formatting

import (
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/sports_booking/internal/model"
)

// FormatBookingInfo форматирует подробную карточку брони (HTML)
func FormatBookingInfo(booking *model.Booking) string {
	status := GetBookingStatusDisplay(booking.Status)
	payment := GetPaymentStatusDisplay(booking.PaymentStatus)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s <b>Бронь %s</b>\n\n", status.Emoji, booking.ShortID())
	fmt.Fprintf(&sb, "🏟 Площадка: %s\n", facilityName(booking))
	fmt.Fprintf(&sb, "📅 Дата: %s\n", FormatDateWithWeekday(booking.Date))
	fmt.Fprintf(&sb, "🕐 Время: %s (%s)\n", FormatInterval(booking.Interval()), FormatDuration(booking.Interval().Minutes()))
	fmt.Fprintf(&sb, "💵 Стоимость: %s\n", FormatPrice(booking.TotalPrice))
	fmt.Fprintf(&sb, "📊 Статус: %s\n", status.Text)
	fmt.Fprintf(&sb, "%s Оплата: %s\n", payment.Emoji, payment.Text)
	if booking.User != nil {
		fmt.Fprintf(&sb, "👤 Клиент: %s\n", html.EscapeString(booking.User.Name))
	}
	if booking.Notes != "" {
		fmt.Fprintf(&sb, "📝 %s\n", html.EscapeString(booking.Notes))
	}
	fmt.Fprintf(&sb, "\n<code>%s</code>", booking.ID)

	return sb.String()
}

// FormatBookingShort строка брони для списка
func FormatBookingShort(booking *model.Booking) string {
	status := GetBookingStatusDisplay(booking.Status)
	return fmt.Sprintf("%s <code>%s</code> %s %s · %s · %s",
		status.Emoji,
		booking.ShortID(),
		FormatDate(booking.Date),
		FormatInterval(booking.Interval()),
		facilityName(booking),
		FormatPriceShort(booking.TotalPrice),
	)
}

// FormatBookingList список броней с заголовком
func FormatBookingList(title string, bookings []*model.Booking) string {
	if len(bookings) == 0 {
		return title + "\n\nБроней пока нет."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%d %s\n\n", title, len(bookings), PluralizeBookings(len(bookings)))
	for _, booking := range bookings {
		sb.WriteString(FormatBookingShort(booking))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatFacilityInfo строка площадки для справочника
func FormatFacilityInfo(facility *model.Facility) string {
	sport := GetSportDisplay(facility.Sport)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s <b>#%d %s</b> · %s", sport.Emoji, facility.ID, html.EscapeString(facility.Name), FormatHourlyPrice(facility.Price))
	if facility.Capacity != "" {
		fmt.Fprintf(&sb, " · %s", html.EscapeString(facility.Capacity))
	}
	if !facility.Available {
		sb.WriteString(" · 🚫 закрыта")
	}
	if len(facility.Features) > 0 {
		fmt.Fprintf(&sb, "\n   %s", html.EscapeString(strings.Join(facility.Features, ", ")))
	}
	return sb.String()
}

// FormatFacilityList справочник площадок
func FormatFacilityList(facilities []*model.Facility) string {
	if len(facilities) == 0 {
		return "🏟 Площадок не найдено."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏟 <b>Площадки</b> (%d %s)\n\n", len(facilities), PluralizeFacilities(len(facilities)))
	for _, facility := range facilities {
		sb.WriteString(FormatFacilityInfo(facility))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatDayFeed занятые интервалы площадки за день
func FormatDayFeed(facility *model.Facility, date model.Date, bookings []*model.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 <b>%s</b>, %s\n\n", html.EscapeString(facility.Name), FormatDateWithWeekday(date))

	if len(bookings) == 0 {
		sb.WriteString("🟢 Весь день свободен")
		return sb.String()
	}

	sb.WriteString("Занято:\n")
	for _, booking := range bookings {
		status := GetBookingStatusDisplay(booking.Status)
		fmt.Fprintf(&sb, "🔴 %s %s", FormatInterval(booking.Interval()), status.Emoji)
		if booking.User != nil {
			fmt.Fprintf(&sb, " %s", html.EscapeString(booking.User.Name))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatBookingEvent текст уведомления администратору
func FormatBookingEvent(event model.BookingEvent) string {
	b := event.Booking

	var header string
	switch event.Type {
	case model.EventBookingCreated:
		header = "🆕 <b>Новая бронь</b>"
	case model.EventBookingStatusChanged:
		header = fmt.Sprintf("🔄 <b>Статус брони изменён</b>: %s → %s",
			GetBookingStatusDisplay(event.PrevStatus).Text,
			GetBookingStatusDisplay(b.Status).Text,
		)
	case model.EventBookingPaymentChanged:
		header = "💳 <b>Оплата брони изменена</b>: " + GetPaymentStatusDisplay(b.PaymentStatus).Text
		if event.PrevPaymentStatus != "" {
			header = fmt.Sprintf("💳 <b>Оплата брони изменена</b>: %s → %s",
				GetPaymentStatusDisplay(event.PrevPaymentStatus).Text,
				GetPaymentStatusDisplay(b.PaymentStatus).Text,
			)
		}
	case model.EventBookingUpdated:
		header = "✏️ <b>Бронь изменена</b>"
	default:
		header = "ℹ️ <b>Бронь</b>"
	}

	return header + "\n\n" + FormatBookingInfo(b)
}

func facilityName(booking *model.Booking) string {
	if booking.Facility != nil {
		return html.EscapeString(booking.Facility.Name)
	}
	return fmt.Sprintf("#%d", booking.FacilityID)
}
