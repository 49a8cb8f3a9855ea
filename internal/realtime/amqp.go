package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

const exchangeName = "task-update"

// AMQPChannel implements Channel over a RabbitMQ topic exchange. The
// server publishes every change notification with the tenant ID as the
// routing key; each session gets its own auto-deleted queue, so delivery
// is best effort by construction.
type AMQPChannel struct {
	conn *amqp.Connection
}

// DialAMQP connects to the broker and declares the exchange.
func DialAMQP(url string) (*AMQPChannel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	return &AMQPChannel{conn: conn}, nil
}

// Subscribe binds a fresh queue to the tenant's routing key and starts a
// consume loop that ends when ctx is cancelled or the subscription is
// closed.
func (c *AMQPChannel) Subscribe(ctx context.Context, companyID string) (Subscription, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	queue, err := ch.QueueDeclare(
		"",    // name: broker-generated
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(queue.Name, companyID, exchangeName, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	deliveries, err := ch.Consume(
		queue.Name, // queue
		"",         // consumer tag
		true,       // auto-ack: advisory events, losing one is fine
		true,       // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to start consumer: %w", err)
	}

	sub := &amqpSubscription{
		ch:     ch,
		events: make(chan Event),
		done:   make(chan struct{}),
	}
	go sub.pump(ctx, deliveries)
	return sub, nil
}

// Close tears down the broker connection.
func (c *AMQPChannel) Close() error {
	return c.conn.Close()
}

type amqpSubscription struct {
	ch     *amqp.Channel
	events chan Event
	done   chan struct{}
}

func (s *amqpSubscription) Events() <-chan Event {
	return s.events
}

func (s *amqpSubscription) Close() error {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	return s.ch.Close()
}

func (s *amqpSubscription) pump(ctx context.Context, deliveries <-chan amqp.Delivery) {
	defer close(s.events)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case msg, ok := <-deliveries:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				log.Printf("dropping malformed realtime event: %v", err)
				continue
			}
			select {
			case s.events <- event:
			case <-ctx.Done():
				return
			case <-s.done:
				return
			}
		}
	}
}

// Publisher is the producing side of the channel, used by the dev server.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// AMQPPublisher publishes change notifications to the topic exchange.
type AMQPPublisher struct {
	ch *amqp.Channel
}

// NewPublisher opens a publishing channel and declares the exchange.
func (c *AMQPChannel) NewPublisher() (*AMQPPublisher, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &AMQPPublisher{ch: ch}, nil
}

// Publish sends one event routed by tenant ID.
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return p.ch.PublishWithContext(
		ctx,
		exchangeName,
		event.CompanyID, // routing key
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Close releases the publishing channel.
func (p *AMQPPublisher) Close() error {
	return p.ch.Close()
}

// NopPublisher discards events; the dev server default when no broker is
// configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
