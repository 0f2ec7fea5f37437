// Package repository provides Postgres data access for leads.
// It is the primary tier of the persistence chain.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"realty_leads_backend/internal/leads/transport"
	"realty_leads_backend/internal/leadtype"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrLeadNotFound = errors.New("lead not found")

const leadColumns = `
	id, lead_type, first_name, last_name, email, phone, message,
	listing_ref, property_ref, event_ref,
	inquiry_type, budget, timeline, preferred_contact_method,
	source_url, utm_source, utm_medium, utm_campaign,
	source, status, priority, assigned_to,
	created_at, updated_at`

// Repository provides data access for the leads table.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores a validated draft as a new lead and returns the stored row.
// The raw submission is retained on the row for audit and manual recovery.
func (r *Repository) Insert(ctx context.Context, draft transport.LeadDraft, cfg leadtype.Config) (transport.Lead, error) {
	rawFields, err := json.Marshal(draft.RawFields)
	if err != nil {
		rawFields = []byte("{}")
	}

	var assignedTo *string
	if draft.AgentRef != "" {
		assignedTo = &draft.AgentRef
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			lead_type, first_name, last_name, email, phone, message,
			listing_ref, property_ref, event_ref,
			inquiry_type, budget, timeline, preferred_contact_method,
			source_url, ip_address, user_agent, utm_source, utm_medium, utm_campaign,
			source, status, priority, assigned_to, raw_fields
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9,
			$10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19,
			$20, $21, $22, $23, $24
		)
		RETURNING`+leadColumns,
		draft.Type, draft.FirstName, draft.LastName, draft.Email, draft.Phone, draft.Message,
		nullable(draft.ListingRef), nullable(draft.PropertyRef), nullable(draft.EventRef),
		nullable(draft.InquiryType), nullable(draft.Budget), nullable(draft.Timeline), nullable(draft.PreferredMethod),
		nullable(draft.SourceURL), nullable(draft.IPAddress), nullable(draft.UserAgent),
		nullable(draft.UTMSource), nullable(draft.UTMMedium), nullable(draft.UTMCampaign),
		cfg.Source, cfg.DefaultStatus, cfg.DefaultPriority, assignedTo, rawFields,
	)

	return scanLead(row)
}

// GetByID retrieves a lead by its identifier.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (transport.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+leadColumns+`
		FROM leads
		WHERE id = $1
	`, id)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return transport.Lead{}, ErrLeadNotFound
	}
	return lead, err
}

// FindRecentDuplicate returns the ID of a lead with the same email created
// within the window, if one exists. Used for diagnostics only; duplicates
// are observed, never suppressed.
func (r *Repository) FindRecentDuplicate(ctx context.Context, email string, window time.Duration) (*uuid.UUID, error) {
	if email == "" {
		return nil, nil
	}

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT id FROM leads
		WHERE email = $1 AND created_at > now() - $2::interval
		ORDER BY created_at DESC
		LIMIT 1
	`, email, window.String()).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func scanLead(row pgx.Row) (transport.Lead, error) {
	var lead transport.Lead
	var lastName, phone *string
	var listingRef, propertyRef, eventRef *string
	var inquiryType, budget, timeline, preferredMethod *string
	var sourceURL, utmSource, utmMedium, utmCampaign *string
	var assignedTo *string

	err := row.Scan(
		&lead.ID, &lead.Type, &lead.FirstName, &lastName, &lead.Email, &phone, &lead.Message,
		&listingRef, &propertyRef, &eventRef,
		&inquiryType, &budget, &timeline, &preferredMethod,
		&sourceURL, &utmSource, &utmMedium, &utmCampaign,
		&lead.Source, &lead.Status, &lead.Priority, &assignedTo,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return transport.Lead{}, err
	}

	lead.LastName = deref(lastName)
	lead.Phone = deref(phone)
	lead.ListingRef = deref(listingRef)
	lead.PropertyRef = deref(propertyRef)
	lead.EventRef = deref(eventRef)
	lead.InquiryType = deref(inquiryType)
	lead.Budget = deref(budget)
	lead.Timeline = deref(timeline)
	lead.PreferredMethod = deref(preferredMethod)
	lead.SourceURL = deref(sourceURL)
	lead.UTMSource = deref(utmSource)
	lead.UTMMedium = deref(utmMedium)
	lead.UTMCampaign = deref(utmCampaign)
	lead.AssignedTo = deref(assignedTo)

	return lead, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
