package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"safety-training-service/internal/domain"
)

// AttemptFinishedKey is the routing key of finished attempt events.
const AttemptFinishedKey = "attempt.finished"

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AttemptFinishedEvent is the message body published for every finished attempt.
type AttemptFinishedEvent struct {
	AttemptID   string    `json:"attemptId"`
	UserID      string    `json:"userId"`
	QuizID      string    `json:"quizId"`
	Score       int       `json:"score"`
	Passed      bool      `json:"passed"`
	CompletedAt time.Time `json:"completedAt"`
}

// Publisher announces finished attempts on a topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	ch       Channel
	exchange string
}

// Dial connects to the broker and declares the durable topic exchange.
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	p := NewPublisher(ch, exchange)
	p.conn = conn
	return p, nil
}

// NewPublisher wraps an already open channel.
func NewPublisher(ch Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

// EncodeAttempt builds the message for a finished attempt.
func EncodeAttempt(record domain.AttemptRecord) (amqp.Publishing, error) {
	body, err := json.Marshal(AttemptFinishedEvent{
		AttemptID:   record.ID,
		UserID:      record.UserID,
		QuizID:      record.QuizID,
		Score:       record.Score,
		Passed:      record.Passed,
		CompletedAt: record.CompletedAt.UTC(),
	})
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    record.ID,
		Timestamp:    record.CompletedAt,
		Body:         body,
	}, nil
}

func (p *Publisher) SubmitAttempt(ctx context.Context, record domain.AttemptRecord) error {
	msg, err := EncodeAttempt(record)
	if err != nil {
		return fmt.Errorf("encode attempt: %w", err)
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, AttemptFinishedKey, false, false, msg); err != nil {
		return fmt.Errorf("publish attempt: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
