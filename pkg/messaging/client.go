package messaging

import "context"

// Client is the interface for messaging operations used by services.
type Client interface {
	DeclareExchange(name, kind string, durable, autoDelete bool) error
	PublishEvent(exchange, routingKey string, message interface{}) error
	ConsumeQueue(ctx context.Context, queueName string, handler func([]byte) error) error
	Close() error
}

type client struct {
	rabbit *RabbitMQ
}

// NewClient creates a new messaging client backed by RabbitMQ.
func NewClient(url string) (Client, error) {
	rabbit, err := NewRabbitMQ(url)
	if err != nil {
		return nil, err
	}
	return &client{rabbit: rabbit}, nil
}

func (c *client) DeclareExchange(name, kind string, durable, autoDelete bool) error {
	return c.rabbit.DeclareExchange(name, kind, durable, autoDelete)
}

func (c *client) PublishEvent(exchange, routingKey string, message interface{}) error {
	return c.rabbit.Publish(exchange, routingKey, message)
}

func (c *client) ConsumeQueue(ctx context.Context, queueName string, handler func([]byte) error) error {
	return c.rabbit.Consume(ctx, queueName, "consumer-"+queueName, handler)
}

func (c *client) Close() error {
	return c.rabbit.Close()
}
