package client

import "context"

// A common interface for queue clients regardless of the underlying broker.
type QueueClient interface {
	SendMessage(ctx context.Context, messageBody string) error
	GetQueueName() string
	Ping() error
	Stop() error
}

func NewQueueClient(queueURL, user, pass, queueName string) (QueueClient, error) {
	return NewRabbitMqClient(queueURL, user, pass, queueName)
}
