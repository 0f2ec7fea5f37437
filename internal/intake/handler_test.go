package intake

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"realty_leads_backend/internal/leads/transport"
	"realty_leads_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) (*gin.Engine, *pipeline) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	p := newPipeline(t, workingStore(), nil)
	handler := NewHandler(p.service, nil, nil, validator.New())

	engine := gin.New()
	leads := engine.Group("/api/v1/leads")
	leads.POST("/forms", handler.HandleSubmit)
	leads.POST("/agent-contact", handler.HandleLegacyAgentContact)
	leads.POST("/listing-inquiry", handler.HandleLegacyListingInquiry)
	return engine, p
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeSubmitResponse(t *testing.T, rec *httptest.ResponseRecorder) transport.SubmitLeadResponse {
	t.Helper()
	var resp transport.SubmitLeadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
	}
	return resp
}

func TestHandleSubmitAccepted(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := postJSON(t, engine, "/api/v1/leads/forms", map[string]string{
		"type":       "general_inquiry",
		"first_name": "Sam",
		"email":      "sam@x.com",
		"message":    "Interested",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	resp := decodeSubmitResponse(t, rec)
	if !resp.Success || resp.LeadID == nil {
		t.Errorf("response = %+v, want success with lead ID", resp)
	}
}

func TestHandleSubmitUnknownType(t *testing.T) {
	engine, p := newTestRouter(t)

	rec := postJSON(t, engine, "/api/v1/leads/forms", map[string]string{
		"type":       "spam",
		"first_name": "Sam",
		"email":      "sam@x.com",
		"message":    "Interested",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if p.notifier.count() != 0 {
		t.Error("notifications attempted for rejected type")
	}
}

func TestHandleSubmitValidationErrors(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := postJSON(t, engine, "/api/v1/leads/forms", map[string]string{
		"type":  "general_inquiry",
		"email": "not-an-email",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	resp := decodeSubmitResponse(t, rec)
	if resp.Success {
		t.Error("Success = true for invalid submission")
	}
	if len(resp.FieldErrors) == 0 {
		t.Fatalf("no field errors in response: %s", rec.Body.String())
	}
}

func TestHandleSubmitFormEncoded(t *testing.T) {
	engine, _ := newTestRouter(t)

	form := url.Values{}
	form.Set("type", "general_inquiry")
	form.Set("first_name", "Sam")
	form.Set("email", "sam@x.com")
	form.Set("message", "Interested")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads/forms", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleLegacyListingInquiry(t *testing.T) {
	engine, p := newTestRouter(t)

	rec := postJSON(t, engine, "/api/v1/leads/listing-inquiry", map[string]string{
		"enquirer_name":  "Sam Buyer",
		"enquirer_email": "sam@x.com",
		"enquiry":        "Is this still available?",
		"listing_id":     "MLS-9",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if p.notifier.count() != 1 {
		t.Errorf("notifier called %d times, want 1", p.notifier.count())
	}
}

func TestHandleLegacyAgentContactRequiresAgent(t *testing.T) {
	engine, _ := newTestRouter(t)

	// Legacy agent contact without agent_slug must fail validation.
	rec := postJSON(t, engine, "/api/v1/leads/agent-contact", map[string]string{
		"contact_name":    "Jane",
		"contact_email":   "jane@example.com",
		"contact_message": "Hi",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	resp := decodeSubmitResponse(t, rec)
	found := false
	for _, fe := range resp.FieldErrors {
		if fe.Field == "agentRef" {
			found = true
		}
	}
	if !found {
		t.Errorf("no field error cites agentRef: %+v", resp.FieldErrors)
	}
}

func TestTokenScopeMismatch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	p := newPipeline(t, workingStore(), nil)
	handler := NewHandler(p.service, nil, nil, validator.New())

	engine := gin.New()
	// Simulate the auth middleware having scoped the token to event_rsvp.
	engine.POST("/forms", func(c *gin.Context) {
		c.Set(ctxFormTokenType, "event_rsvp")
	}, handler.HandleSubmit)

	payload, _ := json.Marshal(map[string]string{
		"type":       "general_inquiry",
		"first_name": "Sam",
		"email":      "sam@x.com",
		"message":    "Interested",
	})
	req := httptest.NewRequest(http.MethodPost, "/forms", strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for token scope mismatch", rec.Code)
	}
	if p.notifier.count() != 0 {
		t.Error("pipeline ran despite token scope mismatch")
	}
}
