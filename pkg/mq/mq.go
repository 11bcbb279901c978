package mq

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"fuzzplot/config"
)

type RabbitMQ interface {
	GetChannel() *amqp.Channel
}

// rabbitMQImpl holds one broker connection. A plotting run publishes a single
// message per render, so the connection is dialed lazily and redialed once it
// has been closed by the broker.
type rabbitMQImpl struct {
	logger *zap.Logger
	url    string

	mu   sync.Mutex
	conn *amqp.Connection
}

type RabbitMQParams struct {
	fx.In

	Config    *config.AppConfig
	Logger    *zap.Logger
	Lifecycle fx.Lifecycle
}

// NewRabbitMQ returns nil when RABBITMQ_URL is unset
func NewRabbitMQ(p RabbitMQParams) RabbitMQ {
	if p.Config.RabbitMQURL == "" {
		return nil
	}
	svc := &rabbitMQImpl{
		logger: p.Logger.Named("rabbitmq"),
		url:    p.Config.RabbitMQURL,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// notifications are optional, a failed dial is retried on publish
			if _, err := svc.connection(); err != nil {
				svc.logger.Warn("RabbitMQ unreachable, will retry on publish", zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			svc.close()
			return nil
		},
	})
	return svc
}

func (r *rabbitMQImpl) connection() (*amqp.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn != nil && !r.conn.IsClosed() {
		return r.conn, nil
	}
	conn, err := amqp.Dial(r.url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}
	r.logger.Debug("connected to RabbitMQ")
	r.conn = conn
	return conn, nil
}

func (r *rabbitMQImpl) close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil {
		return
	}
	if err := r.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		r.logger.Warn("failed to close RabbitMQ connection", zap.Error(err))
	}
	r.conn = nil
}

// GetChannel opens a channel on the shared connection, nil when the broker
// cannot be reached
func (r *rabbitMQImpl) GetChannel() *amqp.Channel {
	conn, err := r.connection()
	if err != nil {
		r.logger.Error("Failed to get RabbitMQ channel", zap.Error(err))
		return nil
	}
	ch, err := conn.Channel()
	if err != nil {
		r.logger.Error("Failed to create RabbitMQ channel", zap.Error(err))
		return nil
	}
	return ch
}
