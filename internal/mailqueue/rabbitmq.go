package mailqueue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// Handler processes one delivery. Returning an error nacks it.
type Handler func(ctx context.Context, body []byte) error

// Broker is the subset of a message broker the mail queue needs.
type Broker interface {
	Publish(ctx context.Context, queue string, body []byte) error
	Consume(ctx context.Context, queue string, handler Handler) error
	Close() error
}

// RabbitMQClient wraps a RabbitMQ connection/channel pair.
type RabbitMQClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewRabbitMQClient(url string, prefetch int) (*RabbitMQClient, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("rabbitmq url is required")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if prefetch > 0 {
		if err := ch.Qos(prefetch, 0, false); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, err
		}
	}

	return &RabbitMQClient{conn: conn, channel: ch}, nil
}

func (r *RabbitMQClient) Publish(ctx context.Context, queue string, body []byte) error {
	if _, err := r.declareQueue(queue); err != nil {
		return err
	}
	return r.channel.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.New().String(),
		Body:         body,
	})
}

// Consume blocks delivering messages to handler until ctx is done. Failed
// deliveries are dropped rather than requeued so a bad message cannot spin.
func (r *RabbitMQClient) Consume(ctx context.Context, queue string, handler Handler) error {
	if _, err := r.declareQueue(queue); err != nil {
		return err
	}

	consumerTag := fmt.Sprintf("mail-consumer-%s", uuid.New().String())
	deliveries, err := r.channel.Consume(queue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.channel.Cancel(consumerTag, false)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq delivery channel closed")
			}
			if err := handler(ctx, delivery.Body); err != nil {
				log.Error().Err(err).Str("message_id", delivery.MessageId).Msg("mail delivery failed")
				_ = delivery.Nack(false, false)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}

func (r *RabbitMQClient) Close() error {
	if r.channel != nil {
		_ = r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

func (r *RabbitMQClient) declareQueue(name string) (amqp.Queue, error) {
	if strings.TrimSpace(name) == "" {
		return amqp.Queue{}, errors.New("rabbitmq queue is required")
	}
	return r.channel.QueueDeclare(name, true, false, false, false, nil)
}
