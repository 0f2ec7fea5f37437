// Package crm propagates persisted leads to the external CRM. The intake
// pipeline publishes a lead-captured event; this module turns it into a
// queued sync task so delivery retries never touch the submission path.
package crm

import (
	"context"
	"crypto/tls"
	"fmt"

	"realty_leads_backend/internal/events"
	"realty_leads_backend/platform/config"
	"realty_leads_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Client enqueues CRM sync tasks.
type Client struct {
	client *asynq.Client
	queue  string
	log    *logger.Logger
}

// NewClient creates an asynq client for the sync queue.
func NewClient(cfg config.SyncConfig, log *logger.Logger) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetSyncQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
		log:    log,
	}, nil
}

// Close closes the underlying asynq client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueLeadSync queues one sync task for a persisted lead.
func (c *Client) EnqueueLeadSync(ctx context.Context, payload LeadSyncPayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewLeadSyncTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(5))
	return err
}

// Subscribe registers the CRM module on the event bus. Enqueue failures
// are logged only; the submission response is already decided.
func (c *Client) Subscribe(bus events.Bus) {
	bus.Subscribe(events.LeadCapturedName, events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		captured, ok := event.(events.LeadCaptured)
		if !ok {
			return fmt.Errorf("unexpected event type %T for %s", event, events.LeadCapturedName)
		}

		err := c.EnqueueLeadSync(ctx, LeadSyncPayload{
			LeadID:   captured.LeadID.String(),
			LeadType: string(captured.LeadType),
			Source:   captured.Source,
		})
		if err != nil {
			c.log.Error("failed to enqueue CRM sync", "leadId", captured.LeadID, "error", err)
			return err
		}

		c.log.LeadEvent("crm_sync_enqueued", captured.LeadID.String(), string(captured.LeadType))
		return nil
	}))
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
