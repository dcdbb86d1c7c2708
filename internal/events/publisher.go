package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/drivio/drivio/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	channelPrefix = "events:"

	// publishTimeout bounds a single delivery attempt so a stalled
	// broker can never hold a request goroutine.
	publishTimeout = 2 * time.Second
)

// Publisher fans visit events out over Redis pub/sub, one channel per
// customer. Delivery is best-effort and detached from the caller: a
// failed publish is logged and never blocks or fails the request that
// produced the event.
type Publisher struct {
	client *redis.Client
	log    *zap.Logger
}

func NewPublisher(cfg config.Config, log *zap.Logger) *Publisher {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: publishTimeout,
	})
	return &Publisher{
		client: client,
		log:    log.Named("events.publisher"),
	}
}

// PublishVisitCreated hands the event off to a background goroutine and
// returns immediately. The delivery attempt carries its own deadline
// instead of the request context.
func (p *Publisher) PublishVisitCreated(ownerID snowflake.ID, payload VisitCreatedPayload) {
	if p == nil || p.client == nil {
		return
	}
	payload.Type = EventVisitCreated

	message, err := json.Marshal(payload)
	if err != nil {
		p.log.Warn("failed to encode visit event", zap.Error(err))
		return
	}

	channel := channelPrefix + ownerID.String()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := p.client.Publish(ctx, channel, message).Err(); err != nil {
			p.log.Warn("failed to publish visit event",
				zap.String("channel", channel),
				zap.Error(err),
			)
		}
	}()
}

func (p *Publisher) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}
