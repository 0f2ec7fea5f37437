package intake

import (
	"context"
	"errors"
	"testing"

	"realty_leads_backend/internal/leads/transport"
	"realty_leads_backend/internal/leadtype"
	"realty_leads_backend/platform/logger"

	"github.com/google/uuid"
)

func successStore(calls *int) Store {
	return StoreFunc(func(ctx context.Context, draft transport.LeadDraft, cfg leadtype.Config) (transport.Lead, error) {
		*calls++
		return transport.Lead{
			ID:       uuid.New(),
			Type:     draft.Type,
			Status:   cfg.DefaultStatus,
			Priority: cfg.DefaultPriority,
		}, nil
	})
}

func failingStore(calls *int) Store {
	return StoreFunc(func(ctx context.Context, draft transport.LeadDraft, cfg leadtype.Config) (transport.Lead, error) {
		*calls++
		return transport.Lead{}, errors.New("store down")
	})
}

func TestPersistPrimarySuccess(t *testing.T) {
	var primaryCalls, fallbackCalls int
	c := NewCoordinator(logger.New("development"))
	c.AddStore("primary", successStore(&primaryCalls))
	c.AddStore("fallback", successStore(&fallbackCalls))

	draft := validDraft(leadtype.GeneralInquiry)
	lead, err := c.Persist(context.Background(), draft, draft.Type.Config())
	if err != nil {
		t.Fatalf("Persist returned error: %v", err)
	}
	if lead.ID == uuid.Nil {
		t.Error("lead has empty ID")
	}
	if primaryCalls != 1 {
		t.Errorf("primary called %d times, want 1", primaryCalls)
	}
	if fallbackCalls != 0 {
		t.Errorf("fallback called %d times, want 0", fallbackCalls)
	}
}

func TestPersistFallbackTransparency(t *testing.T) {
	var primaryCalls, fallbackCalls int
	c := NewCoordinator(logger.New("development"))
	c.AddStore("primary", failingStore(&primaryCalls))
	c.AddStore("fallback", successStore(&fallbackCalls))

	draft := validDraft(leadtype.GeneralInquiry)
	lead, err := c.Persist(context.Background(), draft, draft.Type.Config())
	if err != nil {
		t.Fatalf("Persist returned error despite working fallback: %v", err)
	}
	if lead.ID == uuid.Nil {
		t.Error("lead has empty ID")
	}
	if primaryCalls != 1 || fallbackCalls != 1 {
		t.Errorf("calls = primary %d, fallback %d; want 1 each", primaryCalls, fallbackCalls)
	}
}

func TestPersistAllTiersFail(t *testing.T) {
	var primaryCalls, fallbackCalls int
	c := NewCoordinator(logger.New("development"))
	c.AddStore("primary", failingStore(&primaryCalls))
	c.AddStore("fallback", failingStore(&fallbackCalls))

	draft := validDraft(leadtype.GeneralInquiry)
	_, err := c.Persist(context.Background(), draft, draft.Type.Config())
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
	if primaryCalls != 1 || fallbackCalls != 1 {
		t.Errorf("calls = primary %d, fallback %d; want 1 each", primaryCalls, fallbackCalls)
	}
}

func TestPersistEmptyChain(t *testing.T) {
	c := NewCoordinator(logger.New("development"))

	draft := validDraft(leadtype.GeneralInquiry)
	if _, err := c.Persist(context.Background(), draft, draft.Type.Config()); !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
}
