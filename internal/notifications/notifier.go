package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"

	"bloghub/internal/models"

	"github.com/redis/go-redis/v9"
)

// FeedChannel is the Redis channel carrying post events between replicas.
const FeedChannel = "blog:events"

// Notifier publishes post events. With Redis every replica receives them
// through its subscriber; without Redis they go straight to the local hub.
type Notifier struct {
	rdb *redis.Client
	hub *Hub
}

// NewNotifier creates a Notifier. rdb may be nil.
func NewNotifier(rdb *redis.Client, hub *Hub) *Notifier {
	return &Notifier{rdb: rdb, hub: hub}
}

// PublishPostEvent serialises event and fans it out.
func (n *Notifier) PublishPostEvent(ctx context.Context, event models.PostEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal post event: %w", err)
	}

	if n.rdb == nil {
		n.deliverLocal(payload)
		return nil
	}

	if err := n.rdb.Publish(ctx, FeedChannel, payload).Err(); err != nil {
		// Local subscribers still get it.
		n.deliverLocal(payload)
		return fmt.Errorf("publish post event: %w", err)
	}
	return nil
}

func (n *Notifier) deliverLocal(payload []byte) {
	if n.hub != nil {
		n.hub.BroadcastAll(payload)
	}
}

// StartSubscriber subscribes to FeedChannel and calls onMessage for each
// payload until ctx is cancelled. It returns once the subscription is live.
func (n *Notifier) StartSubscriber(ctx context.Context, onMessage func(payload string)) error {
	if n.rdb == nil {
		return nil
	}

	sub := n.rdb.Subscribe(ctx, FeedChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", FeedChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							slog.Error("panic in feed subscriber",
								slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
						}
					}()
					onMessage(msg.Payload)
				}()
			}
		}
	}()

	return nil
}
