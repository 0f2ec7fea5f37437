package intake

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"realty_leads_backend/internal/leads/repository"
	"realty_leads_backend/internal/leads/transport"
	"realty_leads_backend/internal/leadtype"
	"realty_leads_backend/platform/apperr"
	"realty_leads_backend/platform/httpkit"
	"realty_leads_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LeadReader loads persisted leads. Satisfied by the leads repository.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (transport.Lead, error)
}

// Handler handles intake HTTP requests.
type Handler struct {
	service *Service
	tokens  *TokenRepository
	leads   LeadReader
	val     *validator.Validator
}

// NewHandler creates a new intake handler.
func NewHandler(service *Service, tokens *TokenRepository, leads LeadReader, val *validator.Validator) *Handler {
	return &Handler{service: service, tokens: tokens, leads: leads, val: val}
}

// ---- Submission (public, form-token authenticated) ----

// HandleSubmit processes a canonical form submission.
// POST /api/v1/leads/forms
// The lead type comes from the "type" field and must match the token scope.
func (h *Handler) HandleSubmit(c *gin.Context) {
	fields, ok := parseSubmission(c)
	if !ok {
		return
	}

	typeKey := strings.TrimSpace(fields["type"])
	h.submit(c, typeKey, fields)
}

// HandleLegacyAgentContact accepts the old agent contact form payload.
// POST /api/v1/leads/agent-contact
func (h *Handler) HandleLegacyAgentContact(c *gin.Context) {
	payload, ok := parseSubmission(c)
	if !ok {
		return
	}

	typ, fields := AdaptLegacyAgentContact(payload)
	h.submit(c, string(typ), fields)
}

// HandleLegacyListingInquiry accepts the old listing enquiry form payload.
// POST /api/v1/leads/listing-inquiry
func (h *Handler) HandleLegacyListingInquiry(c *gin.Context) {
	payload, ok := parseSubmission(c)
	if !ok {
		return
	}

	typ, fields := AdaptLegacyListingInquiry(payload)
	h.submit(c, string(typ), fields)
}

// submit runs the shared pipeline path for canonical and legacy endpoints.
func (h *Handler) submit(c *gin.Context, typeKey string, fields map[string]string) {
	// The token's scope must cover the submitted type.
	tokenScope := c.GetString(ctxFormTokenType)
	if tokenScope != "" && typeKey != tokenScope {
		c.JSON(http.StatusForbidden, transport.SubmitLeadResponse{
			Success: false,
			Message: "form token is not valid for this lead type",
		})
		return
	}

	meta := RequestMeta{
		SourceURL: c.GetHeader("Referer"),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	resp, err := h.service.SubmitLead(c.Request.Context(), typeKey, fields, meta)
	if err != nil {
		respondSubmitError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// parseSubmission reads the raw fields from a JSON object or an HTML form
// body. Values are kept as strings; extraction handles coercion.
func parseSubmission(c *gin.Context) (map[string]string, bool) {
	contentType := c.ContentType()

	if strings.Contains(contentType, "application/json") {
		var fields map[string]string
		if err := c.ShouldBindJSON(&fields); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
			return nil, false
		}
		return fields, true
	}

	if err := c.Request.ParseForm(); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid form body", nil)
		return nil, false
	}

	fields := make(map[string]string, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}
	return fields, true
}

// respondSubmitError renders pipeline errors in the submission response
// shape. Field details are included only for validation errors.
func respondSubmitError(c *gin.Context, err error) {
	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) {
		c.JSON(http.StatusInternalServerError, transport.SubmitLeadResponse{
			Success: false,
			Message: "something went wrong",
		})
		return
	}

	resp := transport.SubmitLeadResponse{
		Success: false,
		Message: domainErr.Message,
	}
	if fieldErrs, ok := domainErr.Details.([]transport.FieldError); ok {
		resp.FieldErrors = fieldErrs
	}

	c.JSON(domainErr.HTTPStatus(), resp)
}

// ---- Admin form token management (admin-key authenticated) ----

// CreateTokenRequest is the request body for creating a form token.
type CreateTokenRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	LeadType string `json:"leadType" validate:"required"`
}

// TokenResponse is returned when listing or creating form tokens.
type TokenResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	LeadType    string    `json:"leadType"`
	TokenPrefix string    `json:"tokenPrefix"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   string    `json:"createdAt"`
}

// CreateTokenResponse includes the plaintext token (shown only once).
type CreateTokenResponse struct {
	TokenResponse
	Token string `json:"token"` // plaintext, shown only once
}

// HandleCreateToken creates a new form token scoped to one lead type.
// POST /api/v1/admin/form-tokens
func (h *Handler) HandleCreateToken(c *gin.Context) {
	var req CreateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	lt, err := leadtype.Parse(req.LeadType)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unknown lead type", nil)
		return
	}

	plaintext, hash, prefix, err := GenerateToken()
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to generate token", nil)
		return
	}

	tok, err := h.tokens.Create(c.Request.Context(), req.Name, lt, hash, prefix)
	if httpkit.HandleError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, CreateTokenResponse{
		TokenResponse: toTokenResponse(tok),
		Token:         plaintext,
	})
}

// HandleListTokens lists all form tokens.
// GET /api/v1/admin/form-tokens
func (h *Handler) HandleListTokens(c *gin.Context) {
	tokens, err := h.tokens.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	result := make([]TokenResponse, len(tokens))
	for i, tok := range tokens {
		result[i] = toTokenResponse(tok)
	}

	httpkit.OK(c, result)
}

// HandleRevokeToken deactivates a form token.
// DELETE /api/v1/admin/form-tokens/:tokenId
func (h *Handler) HandleRevokeToken(c *gin.Context) {
	tokenID, err := uuid.Parse(c.Param("tokenId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid token ID", nil)
		return
	}

	if err := h.tokens.Revoke(c.Request.Context(), tokenID); err != nil {
		if errors.Is(err, ErrFormTokenNotFound) {
			httpkit.Error(c, http.StatusNotFound, "form token not found", nil)
			return
		}
		httpkit.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "form token revoked"})
}

// HandleGetLead returns one persisted lead. Used to verify recovery
// after persistence incidents.
// GET /api/v1/admin/leads/:leadId
func (h *Handler) HandleGetLead(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead ID", nil)
		return
	}

	lead, err := h.leads.GetByID(c.Request.Context(), leadID)
	if err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			httpkit.Error(c, http.StatusNotFound, "lead not found", nil)
			return
		}
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, lead)
}

func toTokenResponse(tok FormToken) TokenResponse {
	return TokenResponse{
		ID:          tok.ID,
		Name:        tok.Name,
		LeadType:    string(tok.LeadType),
		TokenPrefix: tok.TokenPrefix,
		IsActive:    tok.IsActive,
		CreatedAt:   tok.CreatedAt.Format(time.RFC3339),
	}
}
