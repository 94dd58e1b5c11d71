package client

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitMqClient struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
}

func NewRabbitMqClient(queueURL, user, pass, queueName string) (*RabbitMqClient, error) {
	amqpURI := fmt.Sprintf("amqp://%s:%s@%s", user, pass, queueURL)
	conn, err := amqp.Dial(amqpURI)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &RabbitMqClient{
		connection: conn,
		channel:    ch,
		queueName:  queueName,
	}, nil
}

func (c *RabbitMqClient) SendMessage(ctx context.Context, messageBody string) error {
	return c.channel.PublishWithContext(
		ctx,
		"",          // default exchange
		c.queueName, // routing key == queue name
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         []byte(messageBody),
		},
	)
}

func (c *RabbitMqClient) GetQueueName() string {
	return c.queueName
}

func (c *RabbitMqClient) Ping() error {
	if c.connection.IsClosed() {
		return fmt.Errorf("queue connection for %s is closed", c.queueName)
	}
	return nil
}

func (c *RabbitMqClient) Stop() error {
	if err := c.channel.Close(); err != nil {
		return err
	}
	return c.connection.Close()
}
