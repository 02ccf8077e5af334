package notify

import (
	"context"
	"time"

	"github.com/carelinkhq/telecare/internal/model"
	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Notifier delivers a title/message pair to users. Delivery is fire and
// forget: implementations log failures and never propagate them, so a failed
// notification cannot roll back the mutation that triggered it.
type Notifier interface {
	NotifyAll(ctx context.Context, users []*model.User, title, message string)
}

// Message is the payload published for downstream email/push workers.
type Message struct {
	UserUUID string `json:"user_uuid"`
	Email    string `json:"email"`
	Title    string `json:"title"`
	Message  string `json:"message"`
}

const (
	exchange   = "notifications"
	routingKey = "user.notify"
)

type amqpNotifier struct {
	channel *amqp091.Channel
	logger  *zap.Logger
}

// NewAMQPNotifier declares the notifications exchange on the given
// connection and returns a publisher for it.
func NewAMQPNotifier(conn *amqp091.Connection, logger *zap.Logger) (Notifier, error) {
	channel, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	err = channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
	if err != nil {
		return nil, err
	}

	return &amqpNotifier{channel: channel, logger: logger}, nil
}

func (n *amqpNotifier) NotifyAll(ctx context.Context, users []*model.User, title, message string) {
	for _, user := range users {
		payload := Message{
			UserUUID: user.UUID.String(),
			Email:    user.Email,
			Title:    title,
			Message:  message,
		}

		body, err := json.Marshal(payload)
		if err != nil {
			n.logger.Error("Failed to marshal notification", zap.Error(err))
			continue
		}

		err = n.channel.PublishWithContext(ctx, exchange, routingKey, false, false, amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		})
		if err != nil {
			n.logger.Error("Failed to publish notification",
				zap.String("user_uuid", user.UUID.String()),
				zap.String("title", title),
				zap.Error(err))
		}
	}
}

// Noop discards notifications; used in tests and when no broker is configured.
type Noop struct{}

func (Noop) NotifyAll(ctx context.Context, users []*model.User, title, message string) {}
