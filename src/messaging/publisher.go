package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/username/expensio/backend/src/logger"
)

// ExpenseCreatedEvent is published after each successful expense insert.
type ExpenseCreatedEvent struct {
	ID        int64   `json:"id"`
	Amount    float64 `json:"amount"`
	Category  string  `json:"category"`
	UserEmail string  `json:"userEmail,omitempty"`
}

type EventPublisher interface {
	PublishExpenseCreated(event ExpenseCreatedEvent) error
	Close() error
}

// NoopPublisher is used when no AMQP URL is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishExpenseCreated(ExpenseCreatedEvent) error { return nil }
func (NoopPublisher) Close() error                                    { return nil }

// AMQPPublisher sends expense events to a durable RabbitMQ queue.
type AMQPPublisher struct {
	conn      *amqp091.Connection
	channel   *amqp091.Channel
	queueName string
}

func NewAMQPPublisher(url, queueName string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	return &AMQPPublisher{conn: conn, channel: channel, queueName: queueName}, nil
}

func (p *AMQPPublisher) PublishExpenseCreated(event ExpenseCreatedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		"",          // default exchange (direct routing to the queue)
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	logger.L.Info("Published expense created event", "id", event.ID, "queue", p.queueName)
	return nil
}

func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
