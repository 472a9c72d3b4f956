package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
)

// LogSubscriber writes every event it receives to the log.
type LogSubscriber struct {
	subscriber message.Subscriber
	logger     *slog.Logger
	wg         sync.WaitGroup
}

func NewLogSubscriber(subscriber message.Subscriber, logger *slog.Logger) *LogSubscriber {
	return &LogSubscriber{subscriber: subscriber, logger: logger}
}

// Start subscribes to the topics and logs their messages until ctx is done.
func (s *LogSubscriber) Start(ctx context.Context, topics ...string) error {
	for _, topic := range topics {
		messages, err := s.subscriber.Subscribe(ctx, topic)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for msg := range messages {
				s.logger.InfoContext(ctx, "Event",
					"topic", msg.Metadata.Get(topicKey),
					"message_id", msg.UUID,
					"payload", string(msg.Payload),
				)
				msg.Ack()
			}
		}()
	}
	return nil
}

// Wait blocks until all subscriptions are closed.
func (s *LogSubscriber) Wait() {
	s.wg.Wait()
}
