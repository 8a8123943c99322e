package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"prixfinance-backend-go/internal/models"
)

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// ActivityPublisher forwards recorded activity entries to a durable RabbitMQ
// queue as JSON. The queue is declared once, when the publisher is created.
type ActivityPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel channel
	queue   string
	logger  *zap.Logger
}

// NewActivityPublisher dials url, opens a channel and declares queue.
func NewActivityPublisher(url, queue string, logger *zap.Logger) (*ActivityPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a RabbitMQ channel: %w", err)
	}
	p, err := newActivityPublisher(ch, queue, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newActivityPublisher(ch channel, queue string, logger *zap.Logger) (*ActivityPublisher, error) {
	if queue == "" {
		return nil, errors.New("activity queue name cannot be empty")
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	logger.Info("Activity publisher ready", zap.String("queue", queue))
	return &ActivityPublisher{channel: ch, queue: queue, logger: logger}, nil
}

// PublishActivity sends entry as a persistent message. amqp channels are not
// safe for concurrent use, so publishes are serialized.
func (p *ActivityPublisher) PublishActivity(ctx context.Context, entry models.ActivityLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode activity entry: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.Publish("", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    entry.Timestamp,
		MessageId:    entry.ID,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to queue %s: %w", p.queue, err)
	}
	return nil
}

// Close closes the channel and then the connection, returning the last error.
func (p *ActivityPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Warn("Error closing RabbitMQ channel", zap.Error(err))
			lastErr = err
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			p.logger.Warn("Error closing RabbitMQ connection", zap.Error(err))
			lastErr = err
		}
	}
	return lastErr
}
