// Package leadservice is an HTTP client for the secondary lead service.
// It is the fallback tier of the persistence chain: same logical entity,
// different storage and transport.
package leadservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"realty_leads_backend/internal/leads/transport"
	"realty_leads_backend/internal/leadtype"
	"realty_leads_backend/platform/config"

	"github.com/google/uuid"
)

// Client calls the secondary lead service's create endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a lead service client from configuration.
func New(cfg config.LeadServiceConfig) *Client {
	return &Client{
		baseURL: cfg.GetLeadServiceURL(),
		apiKey:  cfg.GetLeadServiceAPIKey(),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// createLeadRequest is the wire shape the secondary service accepts.
type createLeadRequest struct {
	Type        string            `json:"type"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName,omitempty"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone,omitempty"`
	Message     string            `json:"message"`
	ListingRef  string            `json:"listingRef,omitempty"`
	PropertyRef string            `json:"propertyRef,omitempty"`
	EventRef    string            `json:"eventRef,omitempty"`
	AssignedTo  string            `json:"assignedTo,omitempty"`
	Source      string            `json:"source"`
	Status      string            `json:"status"`
	Priority    string            `json:"priority"`
	SourceURL   string            `json:"sourceUrl,omitempty"`
	UTMSource   string            `json:"utmSource,omitempty"`
	UTMMedium   string            `json:"utmMedium,omitempty"`
	UTMCampaign string            `json:"utmCampaign,omitempty"`
	RawFields   map[string]string `json:"rawFields,omitempty"`
}

// createLeadResponse is the wire shape the secondary service returns.
type createLeadResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateLead creates a lead in the secondary service and maps the result
// back to the canonical Lead shape.
func (c *Client) CreateLead(ctx context.Context, draft transport.LeadDraft, cfg leadtype.Config) (transport.Lead, error) {
	reqBody := createLeadRequest{
		Type:        string(draft.Type),
		FirstName:   draft.FirstName,
		LastName:    draft.LastName,
		Email:       draft.Email,
		Phone:       draft.Phone,
		Message:     draft.Message,
		ListingRef:  draft.ListingRef,
		PropertyRef: draft.PropertyRef,
		EventRef:    draft.EventRef,
		AssignedTo:  draft.AgentRef,
		Source:      cfg.Source,
		Status:      string(cfg.DefaultStatus),
		Priority:    string(cfg.DefaultPriority),
		SourceURL:   draft.SourceURL,
		UTMSource:   draft.UTMSource,
		UTMMedium:   draft.UTMMedium,
		UTMCampaign: draft.UTMCampaign,
		RawFields:   draft.RawFields,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return transport.Lead{}, fmt.Errorf("marshal lead request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/leads", bytes.NewReader(payload))
	if err != nil {
		return transport.Lead{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transport.Lead{}, fmt.Errorf("lead service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return transport.Lead{}, fmt.Errorf("lead service returned status %d", resp.StatusCode)
	}

	var created createLeadResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return transport.Lead{}, fmt.Errorf("decode lead service response: %w", err)
	}
	if created.ID == uuid.Nil {
		return transport.Lead{}, fmt.Errorf("lead service returned empty lead id")
	}

	createdAt := created.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return transport.Lead{
		ID:          created.ID,
		Type:        draft.Type,
		FirstName:   draft.FirstName,
		LastName:    draft.LastName,
		Email:       draft.Email,
		Phone:       draft.Phone,
		Message:     draft.Message,
		ListingRef:  draft.ListingRef,
		PropertyRef: draft.PropertyRef,
		EventRef:    draft.EventRef,
		SourceURL:   draft.SourceURL,
		UTMSource:   draft.UTMSource,
		UTMMedium:   draft.UTMMedium,
		UTMCampaign: draft.UTMCampaign,
		Source:      cfg.Source,
		Status:      cfg.DefaultStatus,
		Priority:    cfg.DefaultPriority,
		AssignedTo:  draft.AgentRef,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}
