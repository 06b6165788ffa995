package cart

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Cart-changed events published after a mutation is saved. The websocket
// endpoint fans them out so open tabs can refresh their badge; the signal is
// cosmetic and never authoritative.
const (
	EventUpdated = "updated"
	EventCleared = "cleared"
)

type Notifier interface {
	Notify(ctx context.Context, userID, event string)
}

// RedisNotifier publishes onto the per-user cart:<userID> channel.
type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) Notify(ctx context.Context, userID, event string) {
	n.client.Publish(ctx, cartKey(userID), event)
}

// NopNotifier is used in tests.
type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, userID, event string) {}
