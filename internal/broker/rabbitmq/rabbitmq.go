package rabbitmq

import (
	"context"
	"downalert/internal/broker"
	"downalert/internal/lib/sl"
	"downalert/internal/model"
	"downalert/internal/notifier"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const alertsQueue = "alerts"

var (
	_ broker.MessageBroker = &RabbitMQ{}
	_ notifier.Notifier    = &RabbitMQ{}
)

type RabbitMQ struct {
	wg      sync.WaitGroup
	conn    *amqp.Connection
	ch      *amqp.Channel
	alertsQ amqp.Queue
	timeout time.Duration
	closed  chan struct{}
	once    sync.Once
}

func New(url string, timeout time.Duration) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	err = ch.Qos(
		1,     // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	alertsQ, err := ch.QueueDeclare(
		alertsQueue, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare an alerts queue: %w", err)
	}

	return &RabbitMQ{
		conn:    conn,
		ch:      ch,
		alertsQ: alertsQ,
		timeout: timeout,
		closed:  make(chan struct{}),
	}, nil
}

func (r *RabbitMQ) ConsumeAlerts(ctx context.Context) (<-chan model.Alert, error) {
	return consumeRoutine[model.Alert](r, ctx, r.alertsQ.Name)
}

func consumeRoutine[T any](r *RabbitMQ, ctx context.Context, queue string) (<-chan T, error) {
	msgs, err := r.ch.ConsumeWithContext(
		ctx,
		queue, // queue
		"",    // consumer
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return nil, err
	}

	objects := make(chan T)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer close(objects)
		for msg := range msgs {
			var object T
			if err := json.Unmarshal(msg.Body, &object); err != nil {
				slog.Error("failed to parse message body", sl.Error(err))
				continue
			}
			select {
			case <-r.closed:
				return
			case <-ctx.Done():
				return
			case objects <- object:
			}
		}
	}()

	return objects, nil
}

func (r *RabbitMQ) PublishAlert(ctx context.Context, alert model.Alert) error {
	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    alert.Time,
		Body:         body,
	}
	return r.ch.PublishWithContext(ctx, "", r.alertsQ.Name, false, false, msg)
}

// Notify publishes the alert so that the bot process can deliver it.
func (r *RabbitMQ) Notify(ctx context.Context, alert model.Alert) error {
	return r.PublishAlert(ctx, alert)
}

func (r *RabbitMQ) Close() {
	r.once.Do(func() {
		defer r.conn.Close()
		defer r.ch.Close()

		close(r.closed)
		r.wg.Wait()
	})
}
