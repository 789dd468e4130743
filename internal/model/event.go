package model

import "time"

type BookingEventType string

const (
	EventBookingCreated        BookingEventType = "booking.created"
	EventBookingStatusChanged  BookingEventType = "booking.status_changed"
	EventBookingPaymentChanged BookingEventType = "booking.payment_changed"
	EventBookingUpdated        BookingEventType = "booking.updated"
)

// BookingEvent уведомление о результате операции над бронированием
type BookingEvent struct {
	Type    BookingEventType
	Booking *Booking
	Actor   Actor
	// PrevStatus статус до перехода, только для booking.status_changed
	PrevStatus BookingStatus
	// PrevPaymentStatus статус оплаты до изменения, только для booking.payment_changed
	PrevPaymentStatus PaymentStatus
	OccurredAt        time.Time
}
