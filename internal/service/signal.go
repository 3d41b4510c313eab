package service

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/totegamma/textcanon/internal/domain"
)

// SignalService publishes change events to redis and lets tools follow
// them.
type SignalService struct {
	rdb     *redis.Client
	channel string
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb:     redisClient,
		channel: domain.EventChannel,
	}
}

func (s *SignalService) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "SignalService.Publish: marshal")
	}

	if err := s.rdb.Publish(ctx, s.channel, payload).Err(); err != nil {
		return errors.Wrap(err, "SignalService.Publish")
	}
	return nil
}

// Subscribe calls handle for every event until ctx is done. Messages that
// do not decode as events are skipped.
func (s *SignalService) Subscribe(ctx context.Context, handle func(domain.Event)) error {
	sub := s.rdb.Subscribe(ctx, s.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return errors.Wrap(err, "SignalService.Subscribe")
	}

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var event domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			handle(event)
		}
	}
}
