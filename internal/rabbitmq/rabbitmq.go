package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	POST_CREATED_QUEUE = "post-created"
	POST_DELETED_QUEUE = "post-deleted"
)

type MQConn struct {
	conn *amqp.Connection

	mu sync.Mutex
	ch *amqp.Channel
}

func New(connString string) (*MQConn, error) {
	conn, err := amqp.Dial(connString)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	for _, queue := range []string{POST_CREATED_QUEUE, POST_DELETED_QUEUE} {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to declare queue(%s): %w", queue, err)
		}
	}

	return &MQConn{
		conn: conn,
		ch:   ch,
	}, nil
}

// PublishJSON sends a persistent message to queue through the default exchange.
func (c *MQConn) PublishJSON(ctx context.Context, queue string, value interface{}) error {
	body, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

func (c *MQConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ch.Close(); err != nil {
		c.conn.Close()
		return err
	}
	return c.conn.Close()
}
