// SPDX-License-Identifier: GPL-3.0-only

package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"rentdesk-server/commons"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultExchange = "rentdesk.events"

type Config struct {
	URL      string
	Exchange string
}

func LoadConfig() Config {
	return Config{
		URL:      commons.GetEnv("RABBITMQ_URL"),
		Exchange: commons.GetEnv("RABBITMQ_EXCHANGE", DefaultExchange),
	}
}

// AMQPPublisher publishes events as persistent JSON messages on a durable
// topic exchange.
type AMQPPublisher struct {
	exchange string
	conn     *amqp.Connection

	mu      sync.Mutex
	channel *amqp.Channel
}

// New returns an AMQP publisher, or a NopPublisher when no URL is configured.
func New(cfg Config) (Publisher, error) {
	if cfg.URL == "" {
		commons.Logger.Info("RABBITMQ_URL not set, events will not be published")
		return NopPublisher{}, nil
	}
	return Dial(cfg)
}

func Dial(cfg Config) (*AMQPPublisher, error) {
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		commons.Logger.Error("Failed to connect to RabbitMQ:", err)
		return nil, fmt.Errorf("connect: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("exchange declare %s: %w", cfg.Exchange, err)
	}

	commons.Logger.Debugf("Event publisher ready on exchange %s", cfg.Exchange)
	return &AMQPPublisher{exchange: cfg.Exchange, conn: conn, channel: ch}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		ch, err := p.conn.Channel()
		if err != nil {
			commons.Logger.Error("Failed to reopen RabbitMQ channel:", err)
			return fmt.Errorf("channel: %w", err)
		}
		p.channel = ch
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Timestamp:    event.OccurredAt,
		Type:         string(event.Type),
		Body:         body,
	})
	if err != nil {
		commons.Logger.Errorf("Failed to publish %s event %s: %v", event.Type, event.ID, err)
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	commons.Logger.Debugf("Published %s event %s", event.Type, event.ID)
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
	}
	errs = append(errs, p.conn.Close())
	return errors.Join(errs...)
}
