package broker

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Broker publishes JSON messages to a topic exchange, reconnecting when the
// connection drops.
type Broker struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	url      string
}

func NewBroker(rabbitMQURL, exchange string) (*Broker, error) {
	if exchange == "" {
		return nil, errors.New("exchange name is required")
	}
	b := &Broker{exchange: exchange, url: rabbitMQURL}
	if err := b.connect(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Broker) connect() error {
	conn, err := amqp.Dial(b.url)
	if err != nil {
		log.Printf("Failed to connect to RabbitMQ: %v", err)
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("Failed to open channel: %v", err)
		conn.Close()
		return err
	}

	err = ch.ExchangeDeclare(
		b.exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Printf("Failed to declare exchange: %v", err)
		ch.Close()
		conn.Close()
		return err
	}

	b.conn = conn
	b.channel = ch
	return nil
}

func (b *Broker) ensureConnection() error {
	if b.conn == nil || b.conn.IsClosed() || b.channel == nil || b.channel.IsClosed() {
		if b.conn != nil && !b.conn.IsClosed() {
			b.conn.Close()
		}
		return b.connect()
	}
	return nil
}

func (b *Broker) Publish(message interface{}, routingKey string) error {
	body, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal message: %v", err)
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ensureConnection(); err != nil {
		return err
	}

	err = b.channel.Publish(
		b.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		log.Printf("Failed to publish message: %v", err)
		return err
	}
	return nil
}

func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.channel != nil && !b.channel.IsClosed() {
		if err := b.channel.Close(); err != nil {
			log.Printf("Failed to close channel: %v", err)
			return err
		}
	}
	if b.conn != nil && !b.conn.IsClosed() {
		if err := b.conn.Close(); err != nil {
			log.Printf("Failed to close connection: %v", err)
			return err
		}
	}
	return nil
}
