package messaging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"lanvote/internal/shared/events"

	"github.com/google/uuid"
)

const moduleName = "internal/platform/messaging"

// Broker is the in-process broadcast bus behind the live screens.
// Each subscriber gets its own buffered channel, so one writer's events
// arrive in commit order. A full buffer drops the event for that subscriber.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[string][]chan events.Envelope
	buffer      int
	service     string
	now         func() time.Time
	logger      *slog.Logger
}

func NewBroker(service string, buffer int, logger *slog.Logger) *Broker {
	if buffer < 1 {
		buffer = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{
		subscribers: make(map[string][]chan events.Envelope),
		buffer:      buffer,
		service:     service,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger,
	}
}

// Notify wraps payload in an envelope and publishes it.
func (b *Broker) Notify(ctx context.Context, topic string, payload any) error {
	return b.Publish(ctx, events.Envelope{
		EventID:       uuid.NewString(),
		Topic:         topic,
		SourceService: b.service,
		OccurredAtUTC: b.now(),
		Payload:       payload,
	})
}

func (b *Broker) Publish(ctx context.Context, event events.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	subs := b.subscribers[event.Topic]
	for _, sub := range subs {
		select {
		case sub <- event:
		default:
			b.logger.Warn("dropping event for slow subscriber",
				"event", "broker_publish_drop",
				"module", moduleName,
				"layer", "platform",
				"topic", event.Topic,
				"event_id", event.EventID,
			)
		}
	}

	b.logger.Debug("event published",
		"event", "broker_publish",
		"module", moduleName,
		"layer", "platform",
		"topic", event.Topic,
		"event_id", event.EventID,
		"subscribers", len(subs),
	)
	return nil
}

// Subscribe registers a channel for the given topics. The channel is closed
// once ctx is done.
func (b *Broker) Subscribe(ctx context.Context, topics ...string) <-chan events.Envelope {
	ch := make(chan events.Envelope, b.buffer)
	topics = uniqueTopics(topics)

	b.mu.Lock()
	for _, topic := range topics {
		b.subscribers[topic] = append(b.subscribers[topic], ch)
	}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.removeSubscriber(topics, ch)
	}()
	return ch
}

func uniqueTopics(topics []string) []string {
	seen := make(map[string]struct{}, len(topics))
	unique := make([]string, 0, len(topics))
	for _, topic := range topics {
		if _, ok := seen[topic]; ok {
			continue
		}
		seen[topic] = struct{}{}
		unique = append(unique, topic)
	}
	return unique
}

func (b *Broker) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[topic])
}

func (b *Broker) removeSubscriber(topics []string, target chan events.Envelope) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, topic := range topics {
		items := b.subscribers[topic]
		filtered := make([]chan events.Envelope, 0, len(items))
		for _, item := range items {
			if item != target {
				filtered = append(filtered, item)
			}
		}
		if len(filtered) == 0 {
			delete(b.subscribers, topic)
			continue
		}
		b.subscribers[topic] = filtered
	}
	// Publish holds the read lock while sending, so closing here is safe.
	close(target)
}
