package events

import (
	"context"
	"encoding/json"
	"time"

	"parkspot/pkg/logger"
	"parkspot/pkg/model"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Booking lifecycle event types.
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingCompleted = "booking.completed"
	BookingCancelled = "booking.cancelled"
)

const (
	headerEventID   = "event-id"
	headerEventType = "event-type"
	headerSource    = "source"
)

// BookingEvent is the JSON payload published per lifecycle transition.
type BookingEvent struct {
	BookingID string    `json:"booking_id"`
	Code      string    `json:"code"`
	SpotID    string    `json:"spot_id"`
	RenterID  string    `json:"renter_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
}

// Publisher emits booking lifecycle events. Publishing is best-effort:
// callers log failures and carry on.
type Publisher interface {
	PublishBooking(ctx context.Context, eventType string, b *model.Booking) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
	source string
}

// NewKafkaPublisher builds a publisher on the given brokers and topic.
// Messages are keyed by spot ID so one spot's events stay ordered.
func NewKafkaPublisher(brokers []string, topic, source string) Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		BatchTimeout: 50 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(msg string, args ...any) {}),
	}
	return &kafkaPublisher{writer: writer, source: source}
}

func (p *kafkaPublisher) PublishBooking(ctx context.Context, eventType string, b *model.Booking) error {
	event := BookingEvent{
		BookingID: b.ID,
		Code:      b.Code,
		SpotID:    b.SpotID,
		RenterID:  b.RenterID,
		Date:      b.Date,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    b.Status,
		At:        time.Now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(b.SpotID),
		Value: value,
		Time:  event.At,
		Headers: []kafka.Header{
			{Key: headerEventID, Value: []byte(uuid.New().String())},
			{Key: headerEventType, Value: []byte(eventType)},
			{Key: headerSource, Value: []byte(p.source)},
		},
	})
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type noopPublisher struct{}

// NewNoopPublisher is used when no brokers are configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishBooking(context.Context, string, *model.Booking) error {
	return nil
}

func (noopPublisher) Close() error {
	return nil
}

// New selects the Kafka publisher when brokers are configured, otherwise a
// no-op.
func New(brokers []string, topic, source string, log *logger.Logger) Publisher {
	if len(brokers) == 0 {
		log.Info("Kafka brokers not configured, booking events disabled")
		return NewNoopPublisher()
	}
	log.Info("Kafka booking event publisher enabled", "topic", topic, "brokers", brokers)
	return NewKafkaPublisher(brokers, topic, source)
}
