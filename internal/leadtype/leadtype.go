// Package leadtype defines the closed set of lead types and their
// submission defaults. The registry is compile-time data: adding a type
// means adding an enum value and extending the exhaustive switch below,
// so the compiler enforces the decision.
package leadtype

import (
	"fmt"
)

// Type classifies an inbound submission.
type Type string

const (
	AgentContact   Type = "agent_contact"
	GeneralInquiry Type = "general_inquiry"
	ListingInquiry Type = "listing_inquiry"
	EventRSVP      Type = "event_rsvp"
)

// All lists every known lead type, in registry order.
func All() []Type {
	return []Type{AgentContact, GeneralInquiry, ListingInquiry, EventRSVP}
}

// Status is a lead's workflow status.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusClosed    Status = "closed"
)

// Priority ranks how quickly a lead should be worked.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Config holds the submission defaults for one lead type.
type Config struct {
	// Source tags which channel produced the submission.
	Source string
	// DefaultStatus is assigned to every new lead of this type.
	DefaultStatus Status
	// DefaultPriority is assigned to every new lead of this type.
	DefaultPriority Priority
	// RequiresAgent marks types where an assigned agent reference is mandatory.
	RequiresAgent bool
	// Template keys into the notification template set.
	Template string
}

// Parse converts a submitted type key into a Type.
// Unknown keys are rejected; no partial processing happens for them.
func Parse(key string) (Type, error) {
	switch Type(key) {
	case AgentContact:
		return AgentContact, nil
	case GeneralInquiry:
		return GeneralInquiry, nil
	case ListingInquiry:
		return ListingInquiry, nil
	case EventRSVP:
		return EventRSVP, nil
	default:
		return "", fmt.Errorf("unknown lead type %q", key)
	}
}

// Config returns the submission defaults for the type.
// The switch is exhaustive over the enum; the zero Config is unreachable
// for values produced by Parse.
func (t Type) Config() Config {
	switch t {
	case AgentContact:
		return Config{
			Source:          "agent-contact-form",
			DefaultStatus:   StatusNew,
			DefaultPriority: PriorityHigh,
			RequiresAgent:   true,
			Template:        "agent_contact",
		}
	case GeneralInquiry:
		return Config{
			Source:          "contact-form",
			DefaultStatus:   StatusNew,
			DefaultPriority: PriorityNormal,
			RequiresAgent:   false,
			Template:        "general_inquiry",
		}
	case ListingInquiry:
		return Config{
			Source:          "listing-inquiry-form",
			DefaultStatus:   StatusNew,
			DefaultPriority: PriorityHigh,
			RequiresAgent:   false,
			Template:        "listing_inquiry",
		}
	case EventRSVP:
		return Config{
			Source:          "event-rsvp-form",
			DefaultStatus:   StatusNew,
			DefaultPriority: PriorityLow,
			RequiresAgent:   false,
			Template:        "event_rsvp",
		}
	default:
		return Config{}
	}
}

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}
