package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"github.com/petraflow/wellscope/pkg/logger"
)

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	url     string
	stopCh  chan struct{}
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	logger.Info("Connected to RabbitMQ")

	return &RabbitMQ{
		conn:    conn,
		channel: ch,
		url:     url,
		stopCh:  make(chan struct{}),
	}, nil
}

func (r *RabbitMQ) Close() error {
	close(r.stopCh)

	if err := r.channel.Close(); err != nil {
		return fmt.Errorf("failed to close channel: %w", err)
	}
	if err := r.conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

func (r *RabbitMQ) DeclareExchange(name, kind string, durable, autoDelete bool) error {
	return r.channel.ExchangeDeclare(name, kind, durable, autoDelete, false, false, nil)
}

func (r *RabbitMQ) DeclareQueue(name string, durable, autoDelete, exclusive bool) (amqp.Queue, error) {
	return r.channel.QueueDeclare(name, durable, autoDelete, exclusive, false, nil)
}

func (r *RabbitMQ) BindQueue(queueName, routingKey, exchangeName string) error {
	return r.channel.QueueBind(queueName, routingKey, exchangeName, false, nil)
}

func (r *RabbitMQ) Publish(exchange, routingKey string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return r.channel.Publish(
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
}

func (r *RabbitMQ) Consume(ctx context.Context, queueName, consumerName string, handler func([]byte) error) error {
	deliveries, err := r.channel.Consume(queueName, consumerName, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-r.stopCh:
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if err := handler(d.Body); err != nil {
					logger.Error("Failed to handle message",
						logger.Field{Key: "queue", Value: queueName},
						logger.Field{Key: "error", Value: err.Error()},
					)
					d.Nack(false, true)
					continue
				}
				d.Ack(false)
			}
		}
	}()

	return nil
}
