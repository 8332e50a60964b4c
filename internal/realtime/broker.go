package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/maheshrc27/community-api/internal/models"
	"github.com/redis/go-redis/v9"
)

const channelPrefix = "notifications:user:"

// Broker publishes notification events on a per-user redis channel so that
// every API instance can deliver them to the sessions it holds.
type Broker struct {
	rdb    *redis.Client
	hub    *Hub
	logger *slog.Logger
}

func NewBroker(rdb *redis.Client, hub *Hub, logger *slog.Logger) *Broker {
	return &Broker{rdb: rdb, hub: hub, logger: logger}
}

func UserChannel(userID int64) string {
	return channelPrefix + strconv.FormatInt(userID, 10)
}

func (b *Broker) Publish(ctx context.Context, n *models.Notification) error {
	frame, err := encodeNotification(n)
	if err != nil {
		return err
	}
	if err := b.rdb.Publish(ctx, UserChannel(n.RecipientID), frame).Err(); err != nil {
		return fmt.Errorf("publish notification %d: %w", n.ID, err)
	}
	return nil
}

// Run forwards every user channel message to the local hub until ctx is
// cancelled. ready is closed once the subscription is active.
func (b *Broker) Run(ctx context.Context, ready chan<- struct{}) error {
	sub := b.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe notifications: %w", err)
	}
	if ready != nil {
		close(ready)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			userID, err := strconv.ParseInt(strings.TrimPrefix(msg.Channel, channelPrefix), 10, 64)
			if err != nil {
				b.logger.Warn("ignoring message on unexpected channel", "channel", msg.Channel)
				continue
			}
			b.hub.Deliver(userID, []byte(msg.Payload))
		}
	}
}
