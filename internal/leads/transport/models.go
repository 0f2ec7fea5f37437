// Package transport defines the data shapes leads cross module boundaries
// in: the in-flight draft, the persisted lead, and the HTTP response DTOs.
package transport

import (
	"time"

	"realty_leads_backend/internal/leadtype"

	"github.com/google/uuid"
)

// LeadDraft is the in-flight, unpersisted representation of one submission.
// It lives for the duration of a single request.
type LeadDraft struct {
	Type leadtype.Type

	// Contact fields
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Message   string

	// Context references. Opaque to this service; no referential
	// integrity is enforced here.
	ListingRef  string
	AgentRef    string
	PropertyRef string
	EventRef    string

	// Classification fields
	InquiryType     string
	Budget          string
	Timeline        string
	PreferredMethod string

	// Provenance
	SourceURL   string
	IPAddress   string
	UserAgent   string
	UTMSource   string
	UTMMedium   string
	UTMCampaign string

	// RawFields retains the original submission for audit and recovery.
	RawFields map[string]string
}

// Lead is a durably stored lead. Created exactly once per accepted
// submission; this service never deletes it.
type Lead struct {
	ID uuid.UUID `json:"id"`

	Type leadtype.Type `json:"type"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Message   string `json:"message"`

	ListingRef  string `json:"listingRef,omitempty"`
	PropertyRef string `json:"propertyRef,omitempty"`
	EventRef    string `json:"eventRef,omitempty"`

	InquiryType     string `json:"inquiryType,omitempty"`
	Budget          string `json:"budget,omitempty"`
	Timeline        string `json:"timeline,omitempty"`
	PreferredMethod string `json:"preferredContactMethod,omitempty"`

	SourceURL   string `json:"sourceUrl,omitempty"`
	UTMSource   string `json:"utmSource,omitempty"`
	UTMMedium   string `json:"utmMedium,omitempty"`
	UTMCampaign string `json:"utmCampaign,omitempty"`

	Source     string            `json:"source"`
	Status     leadtype.Status   `json:"status"`
	Priority   leadtype.Priority `json:"priority"`
	AssignedTo string            `json:"assignedTo,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullName joins first and last name for display in notifications.
func (l Lead) FullName() string {
	if l.LastName == "" {
		return l.FirstName
	}
	return l.FirstName + " " + l.LastName
}

// FieldError describes one validation failure on a submitted field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SubmitLeadResponse is returned to the caller of the submission endpoints.
type SubmitLeadResponse struct {
	Success     bool         `json:"success"`
	LeadID      *uuid.UUID   `json:"leadId,omitempty"`
	Message     string       `json:"message"`
	FieldErrors []FieldError `json:"fieldErrors,omitempty"`
}
