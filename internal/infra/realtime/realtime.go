// Package realtime subscribes to the backing store's change channels and
// feeds them to the engine as a single ordered stream.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"venue-booking/internal/engine"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "changes:"

type Subscriber struct {
	rdb    *redis.Client
	logger *slog.Logger
}

func NewSubscriber(rdb *redis.Client, logger *slog.Logger) *Subscriber {
	return &Subscriber{rdb: rdb, logger: logger}
}

// Feed subscribes to every collection's change channel and returns the
// merged stream. The channel closes when ctx ends; malformed payloads are
// logged and dropped, never fatal.
func (s *Subscriber) Feed(ctx context.Context) <-chan engine.Change {
	tables := []string{
		engine.CollectionSpaces,
		engine.CollectionEvents,
		engine.CollectionReservations,
		engine.CollectionMessages,
		engine.CollectionNotifications,
	}
	channels := make([]string, len(tables))
	for i, table := range tables {
		channels[i] = channelPrefix + table
	}
	pubsub := s.rdb.Subscribe(ctx, channels...)

	feed := make(chan engine.Change)
	go func() {
		defer close(feed)
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				var ch engine.Change
				if err := json.Unmarshal([]byte(msg.Payload), &ch); err != nil {
					s.logger.Warn("dropping malformed change", "channel", msg.Channel, "error", err)
					continue
				}
				select {
				case feed <- ch:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return feed
}
