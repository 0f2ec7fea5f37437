package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"realty_leads_backend/internal/leads/repository"
	"realty_leads_backend/platform/config"
	"realty_leads_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Worker consumes sync tasks and delivers leads to the CRM webhook.
type Worker struct {
	server        *asynq.Server
	mux           *asynq.ServeMux
	repo          *repository.Repository
	webhookURL    string
	webhookSecret string
	httpClient    *http.Client
	log           *logger.Logger
}

// NewWorker creates the CRM sync worker.
func NewWorker(cfg config.SyncConfig, pool *pgxpool.Pool, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}
	if cfg.GetCRMWebhookURL() == "" {
		return nil, fmt.Errorf("CRM webhook url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetSyncQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetSyncConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:        server,
		mux:           mux,
		repo:          repository.New(pool),
		webhookURL:    cfg.GetCRMWebhookURL(),
		webhookSecret: cfg.GetCRMWebhookSecret(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}

	mux.HandleFunc(TaskLeadSync, w.handleLeadSync)

	return w, nil
}

// Run starts the worker and blocks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("crm sync worker stopped", "error", err)
	}
}

func (w *Worker) handleLeadSync(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadSyncPayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	lead, err := w.repo.GetByID(ctx, leadID)
	if errors.Is(err, repository.ErrLeadNotFound) {
		// Fallback-tier leads have no local row; sync the enqueued
		// identity fields instead of failing permanently.
		w.log.Warn("lead not in primary store, syncing queued fields", "leadId", payload.LeadID)
		return w.postToCRM(ctx, map[string]any{
			"id":     payload.LeadID,
			"type":   payload.LeadType,
			"source": payload.Source,
		})
	}
	if err != nil {
		return err
	}

	body := map[string]any{
		"id":          lead.ID,
		"type":        lead.Type,
		"firstName":   lead.FirstName,
		"lastName":    lead.LastName,
		"email":       lead.Email,
		"phone":       lead.Phone,
		"message":     lead.Message,
		"listingRef":  lead.ListingRef,
		"propertyRef": lead.PropertyRef,
		"eventRef":    lead.EventRef,
		"source":      lead.Source,
		"status":      lead.Status,
		"priority":    lead.Priority,
		"assignedTo":  lead.AssignedTo,
		"utmSource":   lead.UTMSource,
		"utmMedium":   lead.UTMMedium,
		"utmCampaign": lead.UTMCampaign,
		"createdAt":   lead.CreatedAt,
	}

	if err := w.postToCRM(ctx, body); err != nil {
		w.log.Error("CRM delivery failed", "leadId", lead.ID, "error", err)
		return err
	}

	w.log.LeadEvent("crm_sync_delivered", lead.ID.String(), string(lead.Type))
	return nil
}

// postToCRM delivers one payload to the CRM webhook. A non-2xx response
// is an error so asynq retries the task.
func (w *Worker) postToCRM(ctx context.Context, body map[string]any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if w.webhookSecret != "" {
		req.Header.Set("X-Webhook-Secret", w.webhookSecret)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("crm webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("crm webhook returned status %d", resp.StatusCode)
	}
	return nil
}
