package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/charityflow-backend/internal/domain"
)

// Channel is the subset of *amqp.Channel the publisher uses
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Queues names the destination of each event type
type Queues struct {
	Closed string
	Report string
}

// Publisher sends matching outcomes to RabbitMQ as persistent JSON messages
type Publisher struct {
	conn    *amqp.Connection
	channel Channel
	queues  Queues
	logger  logrus.FieldLogger

	// amqp channels are not safe for concurrent publishing
	mu       sync.Mutex
	declared map[string]bool
}

var _ domain.EventPublisher = (*Publisher)(nil)

// Dial connects to url and opens the publishing channel
func Dial(url string, queues Queues, logger logrus.FieldLogger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p := NewPublisher(ch, queues, logger)
	p.conn = conn
	return p, nil
}

// NewPublisher creates a publisher on an already opened channel
func NewPublisher(ch Channel, queues Queues, logger logrus.FieldLogger) *Publisher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Publisher{
		channel:  ch,
		queues:   queues,
		logger:   logger,
		declared: make(map[string]bool),
	}
}

// PublishClosed sends one message per closed entity
func (p *Publisher) PublishClosed(ctx context.Context, events []domain.ClosedEvent) error {
	for _, event := range events {
		if err := p.publish(ctx, p.queues.Closed, event); err != nil {
			return fmt.Errorf("failed to publish closed event for %s %d: %w", event.Kind, event.EntityID, err)
		}
	}
	return nil
}

// PublishReport sends the closed projects report as a single message
func (p *Publisher) PublishReport(ctx context.Context, report *domain.ClosedProjectsReport) error {
	if report == nil {
		return fmt.Errorf("%w: report is nil", domain.ErrInvalidInput)
	}
	return p.publish(ctx, p.queues.Report, report)
}

func (p *Publisher) publish(ctx context.Context, queue string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.declared[queue] {
		_, err := p.channel.QueueDeclare(
			queue,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // args
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", queue, err)
		}
		p.declared[queue] = true
	}

	err = p.channel.PublishWithContext(ctx,
		"",    // exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.logger.WithFields(logrus.Fields{"queue": queue, "bytes": len(body)}).Debug("published message")
	return nil
}

// Close closes the channel and, when Dial opened it, the connection
func (p *Publisher) Close() error {
	var err error
	if p.channel != nil {
		err = p.channel.Close()
	}
	if p.conn != nil {
		if cerr := p.conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
