package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange is the topic exchange card events are published to. Routing keys
// are the message kinds.
const Exchange = "card_events"

// AMQPNotifier publishes notifications to RabbitMQ.
type AMQPNotifier struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewAMQPNotifier dials RabbitMQ and declares the card events exchange.
func NewAMQPNotifier(amqpURL string) (*AMQPNotifier, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("parse amqp url: %w", err)
	}

	conn, err := amqp.DialConfig(cleanURL, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("connect amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPNotifier{conn: conn, channel: ch}, nil
}

// Send publishes the message as JSON with the kind as routing key. A closed
// channel is reopened once before giving up.
func (n *AMQPNotifier) Send(ctx context.Context, message Message) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}
	publishing := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    message.OccurredAt,
		Type:         message.Kind,
		Body:         body,
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	err = n.channel.PublishWithContext(ctx, Exchange, message.Kind, false, false, publishing)
	if err == nil || !n.channel.IsClosed() {
		return err
	}

	ch, chErr := n.conn.Channel()
	if chErr != nil {
		return errors.Join(err, chErr)
	}
	n.channel = ch
	return n.channel.PublishWithContext(ctx, Exchange, message.Kind, false, false, publishing)
}

// Close shuts down the channel and connection.
func (n *AMQPNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	var errs []error
	if n.channel != nil {
		errs = append(errs, n.channel.Close())
	}
	if n.conn != nil {
		errs = append(errs, n.conn.Close())
	}
	return errors.Join(errs...)
}
