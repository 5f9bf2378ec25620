package mailqueue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/klass-lk/seoblog/internal/mailer"
)

// Publisher is a mailer.Mailer that defers delivery to a queue consumer.
type Publisher struct {
	broker Broker
	queue  string
}

func NewPublisher(broker Broker, queue string) *Publisher {
	return &Publisher{broker: broker, queue: queue}
}

func (p *Publisher) Send(ctx context.Context, msg mailer.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := p.broker.Publish(ctx, p.queue, body); err != nil {
		return fmt.Errorf("enqueue mail: %w", err)
	}
	return nil
}

// Consumer drains the queue into a delivering mailer.
type Consumer struct {
	broker   Broker
	queue    string
	delivery mailer.Mailer
}

func NewConsumer(broker Broker, queue string, delivery mailer.Mailer) *Consumer {
	return &Consumer{broker: broker, queue: queue, delivery: delivery}
}

// Run blocks until ctx is cancelled or the broker fails.
func (c *Consumer) Run(ctx context.Context) error {
	return c.broker.Consume(ctx, c.queue, c.handle)
}

func (c *Consumer) handle(ctx context.Context, body []byte) error {
	var msg mailer.Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("decode mail: %w", err)
	}
	return c.delivery.Send(ctx, msg)
}
