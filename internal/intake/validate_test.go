package intake

import (
	"testing"

	"realty_leads_backend/internal/leads/transport"
	"realty_leads_backend/internal/leadtype"
	"realty_leads_backend/platform/validator"
)

func validDraft(typ leadtype.Type) transport.LeadDraft {
	return transport.LeadDraft{
		Type:      typ,
		FirstName: "Jane",
		Email:     "jane@example.com",
		Message:   "Hi",
		AgentRef:  "j-smith",
	}
}

func TestValidateDraftAccepted(t *testing.T) {
	val := validator.New()
	draft := validDraft(leadtype.AgentContact)

	if errs := ValidateDraft(val, draft, draft.Type.Config()); len(errs) != 0 {
		t.Fatalf("valid draft rejected: %+v", errs)
	}
}

func TestValidateDraftCollectsAllErrors(t *testing.T) {
	val := validator.New()
	draft := transport.LeadDraft{Type: leadtype.AgentContact}

	errs := ValidateDraft(val, draft, draft.Type.Config())
	if len(errs) != 4 {
		t.Fatalf("got %d errors, want 4 (firstName, email, message, agentRef): %+v", len(errs), errs)
	}

	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	for _, want := range []string{"firstName", "email", "message", "agentRef"} {
		if !fields[want] {
			t.Errorf("missing error for field %q", want)
		}
	}
}

func TestValidateDraftMalformedEmail(t *testing.T) {
	val := validator.New()
	draft := validDraft(leadtype.GeneralInquiry)
	draft.Email = "not-an-email"

	errs := ValidateDraft(val, draft, draft.Type.Config())
	if len(errs) != 1 || errs[0].Field != "email" {
		t.Fatalf("got %+v, want one email error", errs)
	}
}

func TestValidateDraftMissingMessage(t *testing.T) {
	val := validator.New()
	draft := validDraft(leadtype.GeneralInquiry)
	draft.Message = ""

	errs := ValidateDraft(val, draft, draft.Type.Config())
	if len(errs) == 0 {
		t.Fatal("draft without message accepted")
	}
	found := false
	for _, e := range errs {
		if e.Field == "message" {
			found = true
		}
	}
	if !found {
		t.Errorf("no error cites message: %+v", errs)
	}
}

func TestValidateDraftAgentRequirement(t *testing.T) {
	val := validator.New()

	// agent_contact requires an agent reference.
	draft := transport.LeadDraft{
		Type:      leadtype.AgentContact,
		FirstName: "Jane",
		Email:     "jane@example.com",
		Message:   "Hi",
	}
	errs := ValidateDraft(val, draft, draft.Type.Config())
	if len(errs) != 1 || errs[0].Field != "agentRef" {
		t.Fatalf("got %+v, want one agentRef error", errs)
	}

	// general_inquiry does not.
	draft.Type = leadtype.GeneralInquiry
	if errs := ValidateDraft(val, draft, draft.Type.Config()); len(errs) != 0 {
		t.Fatalf("general inquiry without agent rejected: %+v", errs)
	}
}
