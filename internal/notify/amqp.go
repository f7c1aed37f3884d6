package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
	"github.com/user/tubevibes/internal/model"
)

// Publisher is the subset of *amqp.Channel used by AMQPSink
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPSink publishes events as JSON to a topic exchange
type AMQPSink struct {
	conn     *amqp.Connection
	ch       Publisher
	exchange string
}

// eventMessage is the wire body of a published event
type eventMessage struct {
	Type       model.EventType `json:"type"`
	Video      model.Video     `json:"video"`
	OccurredAt string          `json:"occurredAt"`
}

// DialAMQP connects to url and declares a durable topic exchange
func DialAMQP(url, exchange string) (*AMQPSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open amqp channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	log.Info().Str("exchange", exchange).Msg("Connected to AMQP broker")

	sink := NewAMQPSink(ch, exchange)
	sink.conn = conn
	return sink, nil
}

// NewAMQPSink wraps an open channel
func NewAMQPSink(ch Publisher, exchange string) *AMQPSink {
	return &AMQPSink{ch: ch, exchange: exchange}
}

func (s *AMQPSink) Name() string {
	return "amqp"
}

// RoutingKey returns the topic an event is published under
func RoutingKey(t model.EventType) string {
	return "video." + string(t)
}

func (s *AMQPSink) Deliver(ctx context.Context, event model.VideoEvent) error {
	body, err := json.Marshal(eventMessage{
		Type:       event.Type,
		Video:      event.Video,
		OccurredAt: event.OccurredAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = s.ch.PublishWithContext(ctx,
		s.exchange,
		RoutingKey(event.Type),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    event.OccurredAt,
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close closes the channel and, when dialed, the connection
func (s *AMQPSink) Close() error {
	err := s.ch.Close()
	if s.conn != nil {
		if cerr := s.conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
