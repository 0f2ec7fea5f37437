package intake

import (
	"realty_leads_backend/internal/adapters/storage"
	"realty_leads_backend/internal/events"
	apphttp "realty_leads_backend/internal/http"
	"realty_leads_backend/internal/leads/repository"
	"realty_leads_backend/platform/logger"
	"realty_leads_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the intake bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	tokens  *TokenRepository
}

// Deps are the collaborators the intake module needs beyond its own
// repositories. FallbackStore and Archive may be nil when not configured.
type Deps struct {
	Pool          *pgxpool.Pool
	FallbackStore Store
	Notifier      LeadNotifier
	Archive       storage.ArchiveService
	EventBus      events.Bus
	Validator     *validator.Validator
	Logger        *logger.Logger
}

// NewModule creates and initializes the intake module.
func NewModule(deps Deps) *Module {
	leadsRepo := repository.New(deps.Pool)
	tokens := NewTokenRepository(deps.Pool)

	coordinator := NewCoordinator(deps.Logger)
	coordinator.AddStore("postgres", StoreFunc(leadsRepo.Insert))
	if deps.FallbackStore != nil {
		coordinator.AddStore("lead-service", deps.FallbackStore)
	}

	service := NewService(
		coordinator,
		deps.Notifier,
		leadsRepo,
		deps.Archive,
		deps.EventBus,
		deps.Validator,
		deps.Logger,
	)
	handler := NewHandler(service, tokens, leadsRepo, deps.Validator)

	return &Module{
		handler: handler,
		tokens:  tokens,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "intake"
}

// RegisterRoutes mounts intake routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public submission endpoints (form-token auth, strict rate limit)
	leads := ctx.V1.Group("/leads")
	leads.Use(ctx.SubmitRateLimit)
	leads.Use(FormTokenAuthMiddleware(m.tokens))
	leads.POST("/forms", m.handler.HandleSubmit)
	leads.POST("/agent-contact", m.handler.HandleLegacyAgentContact)
	leads.POST("/listing-inquiry", m.handler.HandleLegacyListingInquiry)

	// Admin surface (static admin key)
	tokenAdmin := ctx.Admin.Group("/form-tokens")
	tokenAdmin.POST("", m.handler.HandleCreateToken)
	tokenAdmin.GET("", m.handler.HandleListTokens)
	tokenAdmin.DELETE("/:tokenId", m.handler.HandleRevokeToken)

	ctx.Admin.GET("/leads/:leadId", m.handler.HandleGetLead)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
