package queue

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPQueue implements Queue over a durable RabbitMQ queue, for
// deployments that already run a broker instead of Redis.
type AMQPQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	name string
}

// NewAMQPQueue dials the broker and declares the queue (idempotent).
func NewAMQPQueue(amqpURL, name string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	_, err = ch.QueueDeclare(
		name,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPQueue{conn: conn, ch: ch, name: name}, nil
}

// Close tears down the channel and connection.
func (q *AMQPQueue) Close() error {
	if q.ch != nil {
		if err := q.ch.Close(); err != nil {
			return err
		}
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

// Publish enqueues a message.
func (q *AMQPQueue) Publish(ctx context.Context, msg Message) error {
	return q.ch.PublishWithContext(
		ctx,
		"",     // exchange (default)
		q.name, // routing key == queue name
		false,  // mandatory
		false,  // immediate
		amqp.Publishing{
			ContentType:  "text/plain",
			DeliveryMode: amqp.Persistent,
			Body:         []byte(serialize(msg)),
		},
	)
}

// Consume streams messages from the queue.
func (q *AMQPQueue) Consume(ctx context.Context) (<-chan Message, error) {
	deliveries, err := q.ch.Consume(
		q.name,
		"",    // consumer tag
		true,  // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return nil, err
	}

	out := make(chan Message)
	go func() {
		defer close(out)
		for {
			select {
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if msg, err := deserialize(string(d.Body)); err == nil {
					out <- msg
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
