package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/palrajin0126/ecom/config"
)

// Publisher pushes order confirmations onto the broker. Checkout treats
// publishing as fire-and-forget: a broker outage is logged by the caller
// and never rolls back the committed order.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(cfg *config.Config) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	p := &Publisher{conn: conn, channel: ch, exchange: cfg.OrderExchange}
	if err := p.setup(cfg); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func (p *Publisher) setup(cfg *config.Config) error {
	if err := p.channel.ExchangeDeclare(
		cfg.OrderExchange,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return err
	}

	if _, err := p.channel.QueueDeclare(
		cfg.OrderQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return err
	}

	return p.channel.QueueBind(cfg.OrderQueue, "", cfg.OrderExchange, false, nil)
}

func (p *Publisher) PublishOrderConfirmation(ctx context.Context, ev OrderConfirmation) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return p.channel.PublishWithContext(ctx,
		p.exchange,
		"",
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			ContentType:  "application/json",
			MessageId:    ev.OrderNumber,
			Body:         body,
		},
	)
}

// Channel exposes the underlying AMQP channel for the in-process consumer.
func (p *Publisher) Channel() *amqp.Channel { return p.channel }

func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
