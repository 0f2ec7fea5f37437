package intake

import "realty_leads_backend/internal/leadtype"

// Legacy payload rewrites. Two older form integrations still post their
// original field names; these pure functions map them onto the canonical
// field set so the rest of the pipeline stays single-path.

// legacyAgentContactFields maps the old agent contact form's field names.
var legacyAgentContactFields = map[string]string{
	"contact_name":    "name",
	"contact_email":   "email",
	"contact_phone":   "phone",
	"contact_message": "message",
	"agent_slug":      "agent",
}

// legacyListingInquiryFields maps the old listing enquiry form's field names.
var legacyListingInquiryFields = map[string]string{
	"enquirer_name":  "name",
	"enquirer_email": "email",
	"enquirer_phone": "phone",
	"enquiry":        "message",
	"listing_id":     "listing",
	"property_id":    "property",
	"price_range":    "budget",
}

// AdaptLegacyAgentContact rewrites the legacy agent contact payload into
// the canonical field map and returns the lead type it belongs to.
func AdaptLegacyAgentContact(payload map[string]string) (leadtype.Type, map[string]string) {
	return leadtype.AgentContact, rewriteFields(payload, legacyAgentContactFields)
}

// AdaptLegacyListingInquiry rewrites the legacy listing enquiry payload
// into the canonical field map and returns the lead type it belongs to.
func AdaptLegacyListingInquiry(payload map[string]string) (leadtype.Type, map[string]string) {
	return leadtype.ListingInquiry, rewriteFields(payload, legacyListingInquiryFields)
}

// rewriteFields renames mapped keys and passes everything else through
// untouched, so fields the legacy forms already share with the canonical
// shape (utm_source and friends) survive the rewrite.
func rewriteFields(payload map[string]string, mapping map[string]string) map[string]string {
	out := make(map[string]string, len(payload))
	for key, value := range payload {
		if canonical, ok := mapping[key]; ok {
			out[canonical] = value
			continue
		}
		out[key] = value
	}
	return out
}
