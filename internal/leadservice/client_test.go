package leadservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"realty_leads_backend/internal/leads/transport"
	"realty_leads_backend/internal/leadtype"

	"github.com/google/uuid"
)

type staticConfig struct {
	url    string
	apiKey string
}

func (c staticConfig) GetLeadServiceURL() string    { return c.url }
func (c staticConfig) GetLeadServiceAPIKey() string { return c.apiKey }
func (c staticConfig) IsLeadServiceEnabled() bool   { return c.url != "" }

func sampleDraft() transport.LeadDraft {
	return transport.LeadDraft{
		Type:      leadtype.GeneralInquiry,
		FirstName: "Sam",
		Email:     "sam@x.com",
		Message:   "Interested",
	}
}

func TestCreateLeadSuccess(t *testing.T) {
	wantID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/leads" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("X-API-Key"); got != "secret" {
			t.Errorf("X-API-Key = %q, want %q", got, "secret")
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if body["firstName"] != "Sam" {
			t.Errorf("firstName = %v, want Sam", body["firstName"])
		}
		if body["status"] != "new" {
			t.Errorf("status = %v, want new", body["status"])
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": wantID})
	}))
	defer srv.Close()

	client := New(staticConfig{url: srv.URL, apiKey: "secret"})
	draft := sampleDraft()

	lead, err := client.CreateLead(context.Background(), draft, draft.Type.Config())
	if err != nil {
		t.Fatalf("CreateLead returned error: %v", err)
	}
	if lead.ID != wantID {
		t.Errorf("lead ID = %s, want %s", lead.ID, wantID)
	}
	if lead.Status != leadtype.StatusNew {
		t.Errorf("lead status = %q, want %q", lead.Status, leadtype.StatusNew)
	}
	if lead.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
}

func TestCreateLeadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(staticConfig{url: srv.URL})
	draft := sampleDraft()

	if _, err := client.CreateLead(context.Background(), draft, draft.Type.Config()); err == nil {
		t.Fatal("CreateLead succeeded, want error on 500 response")
	}
}

func TestCreateLeadMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := New(staticConfig{url: srv.URL})
	draft := sampleDraft()

	if _, err := client.CreateLead(context.Background(), draft, draft.Type.Config()); err == nil {
		t.Fatal("CreateLead succeeded, want error on empty id")
	}
}
