package intake

import (
	"realty_leads_backend/internal/leads/transport"
	"realty_leads_backend/internal/leadtype"

	"realty_leads_backend/platform/validator"
)

// ValidateDraft applies the universal and type-specific rules to a draft.
// All violations are collected so the caller sees the complete list; an
// empty result means the draft may become a lead. Pure: no I/O.
func ValidateDraft(val *validator.Validator, draft transport.LeadDraft, cfg leadtype.Config) []transport.FieldError {
	var errs []transport.FieldError

	if draft.FirstName == "" {
		errs = append(errs, transport.FieldError{
			Field:   "firstName",
			Message: "first name is required",
		})
	}

	if draft.Email == "" {
		errs = append(errs, transport.FieldError{
			Field:   "email",
			Message: "email is required",
		})
	} else if err := val.Var(draft.Email, "email"); err != nil {
		errs = append(errs, transport.FieldError{
			Field:   "email",
			Message: "email address is not valid",
		})
	}

	if draft.Message == "" {
		errs = append(errs, transport.FieldError{
			Field:   "message",
			Message: "message is required",
		})
	}

	if cfg.RequiresAgent && draft.AgentRef == "" {
		errs = append(errs, transport.FieldError{
			Field:   "agentRef",
			Message: "an agent reference is required for this form",
		})
	}

	return errs
}
