package intake

import (
	"strings"

	"realty_leads_backend/internal/leads/transport"
	"realty_leads_backend/internal/leadtype"
	"realty_leads_backend/platform/phone"
	"realty_leads_backend/platform/sanitize"
)

// RequestMeta carries the provenance of one submission, captured by the
// HTTP handler.
type RequestMeta struct {
	SourceURL string
	IPAddress string
	UserAgent string
}

// ExtractDraft normalizes a raw submission into a LeadDraft. Extraction is
// permissive and pure: unrecognized keys are dropped, absent fields stay
// empty, and it never fails. Validation decides acceptance later.
func ExtractDraft(leadType leadtype.Type, fields map[string]string, meta RequestMeta) transport.LeadDraft {
	draft := transport.LeadDraft{
		Type:      leadType,
		SourceURL: strings.TrimSpace(meta.SourceURL),
		IPAddress: strings.TrimSpace(meta.IPAddress),
		UserAgent: strings.TrimSpace(meta.UserAgent),
		RawFields: fields,
	}

	var fullName string

	for key, value := range fields {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		k := strings.ToLower(strings.TrimSpace(key))

		switch {
		case matchesAny(k, firstNamePatterns):
			draft.FirstName = value
		case matchesAny(k, lastNamePatterns):
			draft.LastName = value
		case matchesAny(k, fullNamePatterns):
			fullName = value
		case matchesAny(k, emailPatterns):
			draft.Email = strings.ToLower(value)
		case matchesAny(k, phonePatterns):
			draft.Phone = phone.NormalizeE164(value)
		case matchesAny(k, messagePatterns):
			draft.Message = sanitize.Text(value)
		case matchesAny(k, listingPatterns):
			draft.ListingRef = value
		case matchesAny(k, agentPatterns):
			draft.AgentRef = value
		case matchesAny(k, propertyPatterns):
			draft.PropertyRef = value
		case matchesAny(k, eventPatterns):
			draft.EventRef = value
		case matchesAny(k, inquiryTypePatterns):
			draft.InquiryType = value
		case matchesAny(k, budgetPatterns):
			draft.Budget = value
		case matchesAny(k, timelinePatterns):
			draft.Timeline = value
		case matchesAny(k, contactMethodPatterns):
			draft.PreferredMethod = value
		case k == "utm_source":
			draft.UTMSource = value
		case k == "utm_medium":
			draft.UTMMedium = value
		case k == "utm_campaign":
			draft.UTMCampaign = value
		}
	}

	// A combined name field only fills the gap when the split fields are absent.
	if fullName != "" && draft.FirstName == "" && draft.LastName == "" {
		parts := strings.SplitN(fullName, " ", 2)
		draft.FirstName = parts[0]
		if len(parts) > 1 {
			draft.LastName = strings.TrimSpace(parts[1])
		}
	}

	return draft
}

// Field label patterns. Matching is fuzzy on separators so "first-name",
// "first_name" and "First Name" all resolve to the same field.
var (
	firstNamePatterns     = []string{"first_name", "firstname", "first name", "fname", "given_name"}
	lastNamePatterns      = []string{"last_name", "lastname", "last name", "lname", "surname", "family_name"}
	fullNamePatterns      = []string{"name", "full_name", "fullname", "your_name", "your name"}
	emailPatterns         = []string{"email", "e-mail", "e_mail", "email_address", "emailaddress", "mail"}
	phonePatterns         = []string{"phone", "tel", "telephone", "phone_number", "phonenumber", "mobile", "cell"}
	messagePatterns       = []string{"message", "comment", "comments", "notes", "description", "question", "inquiry", "details"}
	listingPatterns       = []string{"listing", "listing_id", "listing_ref", "listingid", "mls", "mls_number"}
	agentPatterns         = []string{"agent", "agent_id", "agent_ref", "agentid", "realtor", "assigned_agent"}
	propertyPatterns      = []string{"property", "property_id", "property_ref", "propertyid", "address_of_interest"}
	eventPatterns         = []string{"event", "event_id", "event_ref", "eventid", "open_house"}
	inquiryTypePatterns   = []string{"inquiry_type", "inquirytype", "reason", "interest", "i_am_interested_in"}
	budgetPatterns        = []string{"budget", "price_range", "pricerange", "max_price"}
	timelinePatterns      = []string{"timeline", "timeframe", "time_frame", "when", "moving_date"}
	contactMethodPatterns = []string{"preferred_contact", "preferred_contact_method", "contact_method", "contact_preference", "best_way_to_reach"}
)

func matchesAny(label string, patterns []string) bool {
	normalized := strings.NewReplacer("-", "", "_", "", " ", "").Replace(label)
	for _, p := range patterns {
		pNormalized := strings.NewReplacer("-", "", "_", "", " ", "").Replace(p)
		if normalized == pNormalized {
			return true
		}
	}
	return false
}
