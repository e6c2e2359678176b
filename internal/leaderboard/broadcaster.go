package leaderboard

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	ws "github.com/milboard/milboard/pkg/http/ws"
)

type broadcastTarget interface {
	BroadcastAll(msg ws.Message) error
}

// Broadcaster listens for Redis Pub/Sub leaderboard updates and forwards them to all clients.
type Broadcaster struct {
	redis   redis.UniversalClient
	hub     broadcastTarget
	channel string
	logger  zerolog.Logger
}

// NewBroadcaster creates a Pub/Sub powered leaderboard broadcaster.
func NewBroadcaster(client redis.UniversalClient, hub broadcastTarget, channel string, logger zerolog.Logger) *Broadcaster {
	if channel == "" {
		channel = "lb:updates"
	}
	return &Broadcaster{
		redis:   client,
		hub:     hub,
		channel: channel,
		logger:  logger.With().Str("component", "leaderboard_broadcaster").Logger(),
	}
}

// Run subscribes to the update channel and blocks until the context is cancelled.
func (b *Broadcaster) Run(ctx context.Context) error {
	sub := b.redis.Subscribe(ctx, b.channel)
	defer sub.Close()

	// Wait for the subscription to be confirmed so no publish is missed.
	if _, err := sub.Receive(ctx); err != nil {
		return err
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
			b.forward(msg.Payload)
		}
	}
}

func (b *Broadcaster) forward(payload string) {
	var evt ws.LeaderboardUpdatePayload
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		b.logger.Warn().Err(err).Msg("failed to decode leaderboard update payload")
		return
	}

	msg, err := ws.NewMessage(ws.TypeLeaderboardUpdate, evt)
	if err != nil {
		b.logger.Warn().Err(err).Msg("failed to marshal leaderboard WS payload")
		return
	}
	if err := b.hub.BroadcastAll(msg); err != nil {
		b.logger.Warn().Err(err).Msg("failed to broadcast leaderboard update")
	}
}
