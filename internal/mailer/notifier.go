// Package mailer moves notification emails from the API to the SMTP worker over RabbitMQ.
package mailer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
)

type Notifier interface {
	Notify(msg domain.MailMessage) error
}

// Publisher enqueues messages on a durable queue for cmd/mail.
type Publisher struct {
	ch      *amqp.Channel
	queue   string
	timeout time.Duration
}

func NewPublisher(ch *amqp.Channel, queue string, timeout time.Duration) *Publisher {
	return &Publisher{
		ch:      ch,
		queue:   queue,
		timeout: timeout,
	}
}

// DeclareQueue declares the durable mail queue. Both producer and consumer call it.
func DeclareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
}

func (p *Publisher) Notify(msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// LogNotifier stands in for the queue when RabbitMQ is not configured.
// Message data is not logged since it may carry passwords or codes.
type LogNotifier struct{}

func (LogNotifier) Notify(msg domain.MailMessage) error {
	slog.Info("mail queue disabled, dropping notification", "type", msg.Type, "to", msg.To)
	return nil
}
