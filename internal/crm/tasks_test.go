package crm

import (
	"testing"

	"github.com/google/uuid"
)

func TestLeadSyncTaskRoundTrip(t *testing.T) {
	payload := LeadSyncPayload{
		LeadID:   uuid.NewString(),
		LeadType: "general_inquiry",
		Source:   "contact-form",
	}

	task, err := NewLeadSyncTask(payload)
	if err != nil {
		t.Fatalf("NewLeadSyncTask returned error: %v", err)
	}
	if task.Type() != TaskLeadSync {
		t.Errorf("task type = %q, want %q", task.Type(), TaskLeadSync)
	}

	parsed, err := ParseLeadSyncPayload(task)
	if err != nil {
		t.Fatalf("ParseLeadSyncPayload returned error: %v", err)
	}
	if parsed != payload {
		t.Errorf("parsed payload = %+v, want %+v", parsed, payload)
	}
}
