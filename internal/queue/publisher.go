package queue

import (
    "context"
    "encoding/json"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// publishChannel is the part of *amqp.Channel used to publish.
type publishChannel interface {
    QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
    PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// defaultDialTimeout bounds the TCP connect and AMQP handshake when the
// caller's context carries no deadline.
const defaultDialTimeout = 5 * time.Second

// Publisher sends events to RabbitMQ.  A connection is dialed per publish;
// writes are rare compared to reads, so no connection is held open.
type Publisher struct {
    url         string
    queue       string
    dialTimeout time.Duration
}

// NewPublisher returns a publisher for the broker at url routing to
// EventsQueue.
func NewPublisher(url string) *Publisher {
    return &Publisher{url: url, queue: EventsQueue, dialTimeout: defaultDialTimeout}
}

// Publish sends ev as a persistent JSON message.  Connecting is bounded by
// the deadline of ctx (or the dial timeout, whichever is sooner), so a
// broker that accepts TCP but never answers cannot stall the caller.
// Errors are logged and returned so the caller can choose to ignore them.
func (p *Publisher) Publish(ctx context.Context, ev Event) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    conn, err := amqp.DialConfig(p.url, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      amqp.DefaultDial(dialBudget(ctx, p.dialTimeout)),
    })
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    return publish(ctx, ch, p.queue, ev)
}

// dialBudget is the time left before the deadline of ctx, capped at max.
func dialBudget(ctx context.Context, max time.Duration) time.Duration {
    if deadline, ok := ctx.Deadline(); ok {
        if left := time.Until(deadline); left < max {
            if left <= 0 {
                return time.Millisecond
            }
            return left
        }
    }
    return max
}

func publish(ctx context.Context, ch publishChannel, queue string, ev Event) error {
    // Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
        log.Printf("rabbitmq: queue declare failed: %v", err)
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        log.Printf("rabbitmq: marshal event failed: %v", err)
        return err
    }

    msg := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Type:         ev.Type,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    // default exchange, routing key = queue name
    if err := ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
        log.Printf("rabbitmq: publish failed: %v", err)
        return err
    }
    return nil
}
