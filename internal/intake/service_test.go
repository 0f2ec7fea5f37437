package intake

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"realty_leads_backend/internal/adapters/storage"
	"realty_leads_backend/internal/events"
	"realty_leads_backend/internal/leads/transport"
	"realty_leads_backend/internal/leadtype"
	"realty_leads_backend/internal/notification"
	"realty_leads_backend/platform/apperr"
	"realty_leads_backend/platform/logger"
	"realty_leads_backend/platform/validator"

	"github.com/google/uuid"
)

type fakeNotifier struct {
	mu    sync.Mutex
	calls []transport.Lead
}

func (f *fakeNotifier) Notify(ctx context.Context, lead transport.Lead, cfg leadtype.Config) notification.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, lead)
	return notification.Outcome{Channels: []notification.ChannelOutcome{
		{Channel: notification.ChannelAdmin, Attempted: true, Delivered: true},
		{Channel: notification.ChannelSubmitter, Attempted: true, Delivered: true},
	}}
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (f *fakeBus) Publish(ctx context.Context, event events.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, event)
}

func (f *fakeBus) PublishSync(ctx context.Context, event events.Event) error {
	f.Publish(ctx, event)
	return nil
}

func (f *fakeBus) Subscribe(eventName string, handler events.Handler) {}

func (f *fakeBus) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

type fakeArchive struct {
	mu       sync.Mutex
	archived []storage.FailedSubmission
}

func (f *fakeArchive) ArchiveSubmission(ctx context.Context, sub storage.FailedSubmission) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.archived = append(f.archived, sub)
	return "key", nil
}

func (f *fakeArchive) EnsureBucketExists(ctx context.Context) error { return nil }

func (f *fakeArchive) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.archived)
}

type pipeline struct {
	service  *Service
	notifier *fakeNotifier
	bus      *fakeBus
	archive  *fakeArchive
}

func newPipeline(t *testing.T, primary, fallback Store) *pipeline {
	t.Helper()

	p := &pipeline{
		notifier: &fakeNotifier{},
		bus:      &fakeBus{},
		archive:  &fakeArchive{},
	}

	log := logger.New("development")
	coordinator := NewCoordinator(log)
	if primary != nil {
		coordinator.AddStore("primary", primary)
	}
	if fallback != nil {
		coordinator.AddStore("fallback", fallback)
	}

	p.service = NewService(coordinator, p.notifier, nil, p.archive, p.bus, validator.New(), log)
	return p
}

func workingStore() Store {
	return StoreFunc(func(ctx context.Context, draft transport.LeadDraft, cfg leadtype.Config) (transport.Lead, error) {
		now := time.Now()
		return transport.Lead{
			ID:         uuid.New(),
			Type:       draft.Type,
			FirstName:  draft.FirstName,
			LastName:   draft.LastName,
			Email:      draft.Email,
			Message:    draft.Message,
			Source:     cfg.Source,
			Status:     cfg.DefaultStatus,
			Priority:   cfg.DefaultPriority,
			AssignedTo: draft.AgentRef,
			CreatedAt:  now,
			UpdatedAt:  now,
		}, nil
	})
}

func brokenStore() Store {
	return StoreFunc(func(ctx context.Context, draft transport.LeadDraft, cfg leadtype.Config) (transport.Lead, error) {
		return transport.Lead{}, errors.New("store down")
	})
}

func TestSubmitLeadAccepted(t *testing.T) {
	p := newPipeline(t, workingStore(), nil)

	resp, err := p.service.SubmitLead(context.Background(), "general_inquiry", map[string]string{
		"first_name": "Sam",
		"email":      "sam@x.com",
		"message":    "Interested",
	}, RequestMeta{})
	if err != nil {
		t.Fatalf("SubmitLead returned error: %v", err)
	}
	if !resp.Success {
		t.Error("Success = false")
	}
	if resp.LeadID == nil || *resp.LeadID == uuid.Nil {
		t.Fatal("response has no lead ID")
	}
	if p.notifier.count() != 1 {
		t.Errorf("notifier called %d times, want 1", p.notifier.count())
	}
	if p.bus.count() != 1 {
		t.Errorf("events published = %d, want 1", p.bus.count())
	}
}

func TestSubmitLeadUnknownType(t *testing.T) {
	p := newPipeline(t, workingStore(), nil)

	_, err := p.service.SubmitLead(context.Background(), "spam", map[string]string{
		"first_name": "Sam",
	}, RequestMeta{})
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("err = %v, want bad request", err)
	}
	if p.notifier.count() != 0 || p.bus.count() != 0 {
		t.Error("side effects ran for an unknown lead type")
	}
}

func TestSubmitLeadValidationFailure(t *testing.T) {
	var storeCalls int
	counting := StoreFunc(func(ctx context.Context, draft transport.LeadDraft, cfg leadtype.Config) (transport.Lead, error) {
		storeCalls++
		return transport.Lead{ID: uuid.New()}, nil
	})
	p := newPipeline(t, counting, nil)

	_, err := p.service.SubmitLead(context.Background(), "general_inquiry", map[string]string{
		"first_name": "Sam",
		"email":      "sam@x.com",
		// message missing
	}, RequestMeta{})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}

	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) {
		t.Fatal("not an apperr")
	}
	fieldErrs, ok := domainErr.Details.([]transport.FieldError)
	if !ok || len(fieldErrs) == 0 {
		t.Fatalf("details = %#v, want field errors", domainErr.Details)
	}
	cited := false
	for _, fe := range fieldErrs {
		if fe.Field == "message" {
			cited = true
		}
	}
	if !cited {
		t.Errorf("no field error cites message: %+v", fieldErrs)
	}

	if storeCalls != 0 {
		t.Errorf("storage called %d times on invalid draft, want 0", storeCalls)
	}
	if p.notifier.count() != 0 || p.bus.count() != 0 {
		t.Error("side effects ran for an invalid draft")
	}
}

func TestSubmitLeadAgentRequired(t *testing.T) {
	p := newPipeline(t, workingStore(), nil)

	_, err := p.service.SubmitLead(context.Background(), "agent_contact", map[string]string{
		"first_name": "Jane",
		"email":      "jane@example.com",
		"message":    "Hi",
	}, RequestMeta{})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error for missing agent", err)
	}
}

func TestSubmitLeadFallbackTransparency(t *testing.T) {
	p := newPipeline(t, brokenStore(), workingStore())

	resp, err := p.service.SubmitLead(context.Background(), "general_inquiry", map[string]string{
		"first_name": "Sam",
		"email":      "sam@x.com",
		"message":    "Interested",
	}, RequestMeta{})
	if err != nil {
		t.Fatalf("SubmitLead returned error despite working fallback: %v", err)
	}
	if resp.LeadID == nil {
		t.Fatal("no lead ID from fallback tier")
	}
	if p.notifier.count() != 1 {
		t.Errorf("notifier called %d times, want 1", p.notifier.count())
	}
}

func TestSubmitLeadTotalPersistenceFailure(t *testing.T) {
	p := newPipeline(t, brokenStore(), brokenStore())

	_, err := p.service.SubmitLead(context.Background(), "general_inquiry", map[string]string{
		"first_name": "Sam",
		"email":      "sam@x.com",
		"message":    "Interested",
	}, RequestMeta{})
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("err = %v, want unavailable", err)
	}

	// The generic message must not leak storage details.
	var domainErr *apperr.Error
	errors.As(err, &domainErr)
	if domainErr.Message == "" || domainErr.Message == "store down" {
		t.Errorf("error message leaks internals: %q", domainErr.Message)
	}

	if p.notifier.count() != 0 {
		t.Error("notifications attempted after total persistence failure")
	}
	if p.bus.count() != 0 {
		t.Error("events published after total persistence failure")
	}
	if p.archive.count() != 1 {
		t.Errorf("archive called %d times, want 1", p.archive.count())
	}
}

func TestSubmitLeadDuplicatesCreateDistinctLeads(t *testing.T) {
	p := newPipeline(t, workingStore(), nil)
	fields := map[string]string{
		"first_name": "Sam",
		"email":      "sam@x.com",
		"message":    "Interested",
	}

	first, err := p.service.SubmitLead(context.Background(), "general_inquiry", fields, RequestMeta{})
	if err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	second, err := p.service.SubmitLead(context.Background(), "general_inquiry", fields, RequestMeta{})
	if err != nil {
		t.Fatalf("second submission failed: %v", err)
	}
	if *first.LeadID == *second.LeadID {
		t.Error("identical submissions share a lead ID; each must create its own lead")
	}
}
