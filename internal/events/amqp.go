package events

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const amqpQueueName = "content_processing_events"

// AMQPPublisher delivers events through RabbitMQ.
type AMQPPublisher struct {
	conn *amqp.Connection
}

// NewAMQPPublisher dials the broker and declares the events queue.
func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(
		amqpQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp queue declare: %w", err)
	}
	return &AMQPPublisher{conn: conn}, nil
}

// Publish sends an event to the events queue.
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := EncodeEvent(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer ch.Close()

	err = ch.PublishWithContext(
		ctx,
		"",            // default exchange
		amqpQueueName, // routing key
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        payload,
		},
	)
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

// Close releases the broker connection.
func (p *AMQPPublisher) Close() error {
	return p.conn.Close()
}

var _ Publisher = (*AMQPPublisher)(nil)
