// Package events defines the domain events exchanged between modules
// over the event bus.
package events

import (
	"realty_leads_backend/internal/leadtype"
	"realty_leads_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform event types so modules depend on one events package.
type (
	Event       = events.Event
	BaseEvent   = events.BaseEvent
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	Bus         = events.Bus
)

// NewBaseEvent creates a base event stamped with the current time.
var NewBaseEvent = events.NewBaseEvent

// Event names.
const (
	LeadCapturedName = "lead.captured"
)

// LeadCaptured is published after a lead has been durably persisted.
// Subscribers (CRM sync) act independently of the submission response.
type LeadCaptured struct {
	BaseEvent
	LeadID   uuid.UUID
	LeadType leadtype.Type
	Source   string
}

// EventName returns the event identifier.
func (LeadCaptured) EventName() string { return LeadCapturedName }
