package broker

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
)

const (
	EventCreated   = "event.created"
	EventLiked     = "event.liked"
	EventUnliked   = "event.unliked"
	EventCommented = "event.commented"
)

// Publisher sends activity messages keyed by routing key.
type Publisher interface {
	Publish(routingKey string, data interface{}) error
}

type Producer struct {
	// Rabbitmq DSN
	connStr  string
	exchange string

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewProducer(connStr, exchange string) *Producer {
	return &Producer{
		connStr:  connStr,
		exchange: exchange,
	}
}

// Open dials the broker and declares the topic exchange.
func (p *Producer) Open() (err error) {
	if p.connStr == "" {
		return fmt.Errorf("connection string required")
	}

	if p.conn, err = amqp.Dial(p.connStr); err != nil {
		return fmt.Errorf("dial amqp: %w", err)
	}
	if p.channel, err = p.conn.Channel(); err != nil {
		p.conn.Close()
		return fmt.Errorf("open amqp channel: %w", err)
	}

	err = p.channel.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil)
	if err != nil {
		p.Close()
		return fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}
	return nil
}

func (p *Producer) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

func (p *Producer) Publish(routingKey string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.channel.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        jsonData,
		})
}

// Noop discards every message. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(string, interface{}) error { return nil }
