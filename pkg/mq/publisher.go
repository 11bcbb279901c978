package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"fuzzplot/config"
	"fuzzplot/internal/types"
)

// ChartPublisher announces rendered charts on a durable queue
type ChartPublisher struct {
	rabbitMQ RabbitMQ
	queue    string
	logger   *zap.Logger
}

type ChartPublisherParams struct {
	fx.In
	Config   *config.AppConfig
	Logger   *zap.Logger
	RabbitMQ RabbitMQ `optional:"true"`
}

// NewChartPublisher returns nil when no broker is configured
func NewChartPublisher(p ChartPublisherParams) *ChartPublisher {
	if p.RabbitMQ == nil {
		return nil
	}
	return &ChartPublisher{
		rabbitMQ: p.RabbitMQ,
		queue:    p.Config.ChartQueue,
		logger:   p.Logger.Named("publisher"),
	}
}

func (c *ChartPublisher) Publish(ctx context.Context, msg types.ChartMessage) error {
	if c == nil {
		return nil
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal chart message: %w", err)
	}

	channel := c.rabbitMQ.GetChannel()
	if channel == nil {
		return errors.New("no RabbitMQ channel available")
	}
	defer channel.Close()

	// idempotent, a no-op if the queue already exists
	q, err := channel.QueueDeclare(
		c.queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.PublishWithContext(ctx,
		"",     // exchange
		q.Name, // routing key
		false,  // mandatory
		false,  // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	c.logger.Debug("chart message published", zap.String("queue", q.Name), zap.String("run_id", msg.RunId))
	return nil
}
