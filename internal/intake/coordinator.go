package intake

import (
	"context"
	"errors"

	"realty_leads_backend/internal/leads/transport"
	"realty_leads_backend/internal/leadtype"
	"realty_leads_backend/platform/logger"
)

// ErrPersistence means every tier of the storage chain failed. The lead
// was not created; the caller gets only a generic retry message.
var ErrPersistence = errors.New("all persistence tiers failed")

// Store is one persistence tier for leads. The primary tier is the
// Postgres repository; the fallback is the secondary lead service.
type Store interface {
	CreateLead(ctx context.Context, draft transport.LeadDraft, cfg leadtype.Config) (transport.Lead, error)
}

// StoreFunc adapts a function to the Store interface.
type StoreFunc func(ctx context.Context, draft transport.LeadDraft, cfg leadtype.Config) (transport.Lead, error)

// CreateLead calls the underlying function.
func (f StoreFunc) CreateLead(ctx context.Context, draft transport.LeadDraft, cfg leadtype.Config) (transport.Lead, error) {
	return f(ctx, draft, cfg)
}

// Coordinator tries an ordered chain of stores until one succeeds. Which
// tier served is recorded in logs only; callers see no behavioral
// difference between tiers.
type Coordinator struct {
	stores []namedStore
	log    *logger.Logger
}

type namedStore struct {
	name  string
	store Store
}

// NewCoordinator creates an empty persistence chain.
func NewCoordinator(log *logger.Logger) *Coordinator {
	return &Coordinator{log: log}
}

// AddStore appends a tier to the chain. Tiers are attempted in the order
// they are added.
func (c *Coordinator) AddStore(name string, store Store) {
	c.stores = append(c.stores, namedStore{name: name, store: store})
}

// Persist runs the chain: first success wins. When every tier fails it
// returns ErrPersistence with the tier errors logged.
func (c *Coordinator) Persist(ctx context.Context, draft transport.LeadDraft, cfg leadtype.Config) (transport.Lead, error) {
	if len(c.stores) == 0 {
		c.log.Error("persistence chain is empty")
		return transport.Lead{}, ErrPersistence
	}

	for i, tier := range c.stores {
		lead, err := tier.store.CreateLead(ctx, draft, cfg)
		if err == nil {
			if i > 0 {
				c.log.Warn("lead persisted via fallback tier", "tier", tier.name, "leadId", lead.ID)
			}
			c.log.LeadEvent("lead_persisted", lead.ID.String(), string(lead.Type))
			return lead, nil
		}

		c.log.Error("persistence tier failed",
			"tier", tier.name,
			"leadType", draft.Type,
			"error", err,
		)
	}

	return transport.Lead{}, ErrPersistence
}
