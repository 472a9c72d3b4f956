// Package events publishes the changes of tournaments over watermill.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// The metadata key carrying the topic of a message
const topicKey = "topic"

// Publisher encodes payloads as JSON and publishes them on a topic.
type Publisher struct {
	publisher message.Publisher
	logger    *slog.Logger
}

func NewPublisher(publisher message.Publisher, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Publisher{publisher: publisher, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, topic string, payload any) error {
	payloadData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payloadData)
	msg.Metadata.Set(topicKey, topic)
	msg.SetContext(ctx)

	p.logger.DebugContext(ctx, "Publishing event", "topic", topic, "message_id", msg.UUID)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Decode unmarshals the payload of a message.
func Decode[T any](msg *message.Message) (T, error) {
	var payload T
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload of %s: %w", msg.UUID, err)
	}
	return payload, nil
}
