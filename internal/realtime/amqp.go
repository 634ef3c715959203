package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type AMQPConfig struct {
	URL        string
	Exchange   string
	BindingKey string
	Heartbeat  time.Duration
	Backoff    Backoff
}

// AMQPDialer receives news events from a topic exchange through an
// exclusive, auto-deleted queue. The event name is taken from the message
// type, or from the routing key with its first dot turned into a colon
// ("news.deleted" becomes "news:deleted").
type AMQPDialer struct {
	cfg    AMQPConfig
	logger *slog.Logger
}

func NewAMQPDialer(cfg AMQPConfig, logger *slog.Logger) *AMQPDialer {
	if cfg.BindingKey == "" {
		cfg.BindingKey = "news.#"
	}
	if cfg.Heartbeat == 0 {
		cfg.Heartbeat = 10 * time.Second
	}
	if cfg.Backoff.Initial == 0 {
		cfg.Backoff = Backoff{Initial: time.Second, Max: 30 * time.Second}
	}
	return &AMQPDialer{cfg: cfg, logger: logger.With("transport", "amqp")}
}

func (d *AMQPDialer) Dial(ctx context.Context, credential string) (Conn, error) {
	connect := func(context.Context) (session, error) {
		return d.open(credential)
	}

	l, err := openLink(ctx, connect, d.cfg.Backoff, d.logger)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (d *AMQPDialer) open(credential string) (*amqpSession, error) {
	conn, err := amqp.DialConfig(d.cfg.URL, amqp.Config{
		Heartbeat:  d.cfg.Heartbeat,
		Properties: amqp.Table{"authorization": "Bearer " + credential},
	})
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		d.cfg.Exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		"",
		false,
		true,
		true,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	err = ch.QueueBind(
		q.Name,
		d.cfg.BindingKey,
		d.cfg.Exchange,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("consume queue: %w", err)
	}

	d.logger.Info("connected to rabbitmq",
		"exchange", d.cfg.Exchange,
		"queue", q.Name,
		"binding_key", d.cfg.BindingKey,
	)

	return &amqpSession{conn: conn, channel: ch, deliveries: deliveries}, nil
}

type amqpSession struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	deliveries <-chan amqp.Delivery

	closeOnce sync.Once
	closeErr  error
}

func (s *amqpSession) run(ctx context.Context, emit func(string, []byte)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-s.deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			emit(eventName(d), d.Body)
		}
	}
}

func eventName(d amqp.Delivery) string {
	if d.Type != "" {
		return d.Type
	}
	return strings.Replace(d.RoutingKey, ".", ":", 1)
}

func (s *amqpSession) close() error {
	s.closeOnce.Do(func() {
		if s.channel != nil {
			s.channel.Close()
		}
		if s.conn != nil {
			s.closeErr = s.conn.Close()
		}
	})
	return s.closeErr
}
