package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "os"
    "path/filepath"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer listens to EventsQueue and appends one line per event to a log
// file.
type Consumer struct {
    url     string
    queue   string
    logPath string
}

// NewConsumer returns a consumer for the broker at url writing to logPath
// (logs/booking.log when empty).
func NewConsumer(url, logPath string) *Consumer {
    if logPath == "" {
        logPath = filepath.Join("logs", "booking.log")
    }
    return &Consumer{url: url, queue: EventsQueue, logPath: logPath}
}

// Run connects to RabbitMQ, declares the queue (durable) and consumes until
// ctx is cancelled.  Broken connections are re-dialed with exponential
// backoff; a message that cannot be handled is rejected without requeue so
// the loop keeps going.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.url)
        if err != nil {
            log.Printf("booking-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consumeLoop(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Printf("booking-consumer: consume loop ended: %v; reconnecting", err)
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("booking-consumer: set QoS failed: %v", err)
    }
    if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.handleMessage(d.Body); err != nil {
                log.Printf("booking-consumer: handle message failed: %v", err)
                _ = d.Nack(false, false) // do not requeue, avoids tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func (c *Consumer) handleMessage(body []byte) error {
    var ev Event
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Type == "" {
        return errors.New("event without type")
    }
    if err := os.MkdirAll(filepath.Dir(c.logPath), 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(c.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(FormatEvent(ev) + "\n"); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatEvent renders ev as a single human-friendly log line.
func FormatEvent(ev Event) string {
    var b strings.Builder
    fmt.Fprintf(&b, "[%s] %s | id=%d", ev.OccurredAt, describe(ev.Type), ev.EntityID)
    if ev.Name != "" {
        fmt.Fprintf(&b, " | name=%q", ev.Name)
    }
    if ev.VenueID != 0 {
        fmt.Fprintf(&b, " | venue_id=%d", ev.VenueID)
    }
    if ev.ArtistID != 0 {
        fmt.Fprintf(&b, " | artist_id=%d", ev.ArtistID)
    }
    if ev.StartTime != "" {
        fmt.Fprintf(&b, " | start_time=%s", ev.StartTime)
    }
    return b.String()
}

func describe(typ string) string {
    switch typ {
    case VenueCreated:
        return "Venue listed"
    case VenueUpdated:
        return "Venue edited"
    case VenueDeleted:
        return "Venue deleted"
    case ArtistCreated:
        return "Artist listed"
    case ArtistUpdated:
        return "Artist edited"
    case ShowListed:
        return "Show listed"
    }
    return typ
}
