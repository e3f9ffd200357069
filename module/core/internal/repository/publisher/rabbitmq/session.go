package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nandanugg/fieldtime/module/core/domain"
	"github.com/nandanugg/fieldtime/module/core/internal/repository/publisher"
)

var _ publisher.SessionPublisher = (*SessionPublisher)(nil)

const (
	ExchangeName = "fieldtime.events"
	QueueName    = "work_sessions"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type SessionPublisher struct {
	ch channel
}

func NewSessionPublisher(conn *amqp.Connection) (*SessionPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(QueueName, "", ExchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	return &SessionPublisher{ch: ch}, nil
}

type sessionMessage struct {
	Event       domain.SessionEventType `json:"event"`
	DeviceID    string                  `json:"device_id"`
	CustomerKey string                  `json:"customer_key"`
	Timestamp   int64                   `json:"timestamp"`
	Entry       *domain.WorkLogEntry    `json:"entry,omitempty"`
}

func (p *SessionPublisher) PublishSessionEvent(ctx context.Context, event *domain.SessionEvent) error {
	body, err := encodeSessionEvent(event)
	if err != nil {
		return err
	}

	return p.ch.PublishWithContext(ctx, ExchangeName, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         string(event.Type),
		Timestamp:    event.Timestamp,
		Body:         body,
	})
}

func encodeSessionEvent(event *domain.SessionEvent) ([]byte, error) {
	msg := sessionMessage{
		Event:       event.Type,
		DeviceID:    string(event.DeviceID),
		CustomerKey: string(event.CustomerKey),
		Timestamp:   event.Timestamp.UnixMilli(),
		Entry:       event.Entry,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal session event: %w", err)
	}
	return body, nil
}
