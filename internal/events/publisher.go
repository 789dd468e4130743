package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Freeeeeet/sports_booking/internal/model"
	amqp "github.com/rabbitmq/amqp091-go"
)

// channel часть amqp.Channel, нужная публикатору
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher публикует события бронирований в topic-exchange RabbitMQ.
// Ключ маршрутизации совпадает с типом события, например booking.created.
type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// BookingMessage тело сообщения
type BookingMessage struct {
	Event         model.BookingEventType `json:"event"`
	BookingID     string                 `json:"booking_id"`
	UserID        int64                  `json:"user_id"`
	FacilityID    int64                  `json:"facility_id"`
	Date          model.Date             `json:"date"`
	StartTime     model.Clock            `json:"start_time"`
	EndTime       model.Clock            `json:"end_time"`
	TotalPrice    int                    `json:"total_price"`
	Status        model.BookingStatus    `json:"status"`
	PrevStatus    model.BookingStatus    `json:"prev_status,omitempty"`
	PaymentStatus model.PaymentStatus    `json:"payment_status"`
	PrevPayment   model.PaymentStatus    `json:"prev_payment_status,omitempty"`
	ActorID       int64                  `json:"actor_id"`
	OccurredAt    time.Time              `json:"occurred_at"`
}

// NewBookingMessage строит сообщение из события
func NewBookingMessage(event model.BookingEvent) BookingMessage {
	b := event.Booking
	return BookingMessage{
		Event:         event.Type,
		BookingID:     b.ID.String(),
		UserID:        b.UserID,
		FacilityID:    b.FacilityID,
		Date:          b.Date,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		TotalPrice:    b.TotalPrice,
		Status:        b.Status,
		PrevStatus:    event.PrevStatus,
		PaymentStatus: b.PaymentStatus,
		PrevPayment:   event.PrevPaymentStatus,
		ActorID:       event.Actor.ID,
		OccurredAt:    event.OccurredAt,
	}
}

// Notify публикует событие
func (p *Publisher) Notify(ctx context.Context, event model.BookingEvent) error {
	if event.Booking == nil {
		return fmt.Errorf("publish %s: empty booking", event.Type)
	}
	return p.PublishJSON(ctx, string(event.Type), NewBookingMessage(event))
}

func (p *Publisher) PublishJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         b,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
