// Package queue publishes ledger events to RabbitMQ for downstream consumers
// (stats pipelines, notification services). Publishing is best-effort: a failed
// publish is logged and never rolls back the ledger operation it follows.
package queue

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/Spikeyfun/prediction/internal/config"
	"github.com/Spikeyfun/prediction/internal/queue/client"
)

type Queues struct {
	StakeEventsQueueClient      client.QueueClient
	ResolutionEventsQueueClient client.QueueClient
	PayoutEventsQueueClient     client.QueueClient
}

func New(cfg *config.QueueConfig) (*Queues, error) {
	stakeEventsQueueClient, err := client.NewQueueClient(
		cfg.Url, cfg.QueueUser, cfg.QueuePassword, client.StakeEventsQueueName,
	)
	if err != nil {
		return nil, err
	}
	resolutionEventsQueueClient, err := client.NewQueueClient(
		cfg.Url, cfg.QueueUser, cfg.QueuePassword, client.ResolutionEventsQueueName,
	)
	if err != nil {
		return nil, err
	}
	payoutEventsQueueClient, err := client.NewQueueClient(
		cfg.Url, cfg.QueueUser, cfg.QueuePassword, client.PayoutEventsQueueName,
	)
	if err != nil {
		return nil, err
	}
	return &Queues{
		StakeEventsQueueClient:      stakeEventsQueueClient,
		ResolutionEventsQueueClient: resolutionEventsQueueClient,
		PayoutEventsQueueClient:     payoutEventsQueueClient,
	}, nil
}

func (q *Queues) EmitStakePlacedEvent(ctx context.Context, ev client.StakePlacedEvent) {
	publish(ctx, q.StakeEventsQueueClient, ev)
}

func (q *Queues) EmitSlotResolvedEvent(ctx context.Context, ev client.SlotResolvedEvent) {
	publish(ctx, q.ResolutionEventsQueueClient, ev)
}

func (q *Queues) EmitRewardClaimedEvent(ctx context.Context, ev client.RewardClaimedEvent) {
	publish(ctx, q.PayoutEventsQueueClient, ev)
}

func publish(ctx context.Context, queueClient client.QueueClient, event interface{}) {
	body, err := json.Marshal(event)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("queueName", queueClient.GetQueueName()).
			Msg("failed to marshal event")
		return
	}
	if err := queueClient.SendMessage(ctx, string(body)); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("queueName", queueClient.GetQueueName()).
			Msg("failed to publish event")
	}
}

func (q *Queues) IsConnectionHealthy() error {
	if err := q.StakeEventsQueueClient.Ping(); err != nil {
		return err
	}
	if err := q.ResolutionEventsQueueClient.Ping(); err != nil {
		return err
	}
	return q.PayoutEventsQueueClient.Ping()
}

func (q *Queues) Stop() {
	for _, queueClient := range []client.QueueClient{
		q.StakeEventsQueueClient,
		q.ResolutionEventsQueueClient,
		q.PayoutEventsQueueClient,
	} {
		if err := queueClient.Stop(); err != nil {
			log.Error().Err(err).Str("queueName", queueClient.GetQueueName()).
				Msg("error while stopping queue client")
		}
	}
}
