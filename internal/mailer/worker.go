package mailer

import (
	"context"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"
)

// Sender is satisfied by *mail.Client.
type Sender interface {
	DialAndSend(messages ...*mail.Msg) error
}

type Worker struct {
	sender Sender
	from   string
	logger *slog.Logger
}

func NewWorker(sender Sender, from string, logger *slog.Logger) *Worker {
	return &Worker{
		sender: sender,
		from:   from,
		logger: logger,
	}
}

// Handle sends one delivery. Undecodable messages are dropped, send failures are requeued.
func (w *Worker) Handle(d amqp.Delivery) {
	msg, err := Compose(w.from, d.Body)
	if err != nil {
		w.logger.Error("dropping mail message", slog.String("error", err.Error()))
		_ = d.Nack(false, false)
		return
	}

	if err := w.sender.DialAndSend(msg); err != nil {
		w.logger.Error("failed to send mail", slog.String("error", err.Error()))
		_ = d.Nack(false, true)
		return
	}

	_ = d.Ack(false)
}

// Run handles deliveries until ctx is cancelled or the channel closes.
func (w *Worker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				w.logger.Warn("delivery channel closed")
				return
			}
			w.Handle(d)
		}
	}
}
