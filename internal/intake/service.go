package intake

import (
	"context"
	"time"

	"realty_leads_backend/internal/adapters/storage"
	"realty_leads_backend/internal/events"
	"realty_leads_backend/internal/leads/transport"
	"realty_leads_backend/internal/leadtype"
	"realty_leads_backend/internal/notification"
	"realty_leads_backend/platform/apperr"
	"realty_leads_backend/platform/logger"
	"realty_leads_backend/platform/validator"

	"github.com/google/uuid"
)

const duplicateWindow = 60 * time.Second

// LeadNotifier fans out notifications for a persisted lead.
// Satisfied by notification.Notifier.
type LeadNotifier interface {
	Notify(ctx context.Context, lead transport.Lead, cfg leadtype.Config) notification.Outcome
}

// DuplicateFinder detects near-duplicate submissions for diagnostics.
// Satisfied by the leads repository.
type DuplicateFinder interface {
	FindRecentDuplicate(ctx context.Context, email string, window time.Duration) (*uuid.UUID, error)
}

// Service runs the submission pipeline: extract, validate, persist,
// notify, sync. One instance serves all lead types.
type Service struct {
	coordinator *Coordinator
	notifier    LeadNotifier
	duplicates  DuplicateFinder
	archive     storage.ArchiveService
	bus         events.Bus
	val         *validator.Validator
	log         *logger.Logger
}

// NewService creates the intake pipeline service. duplicates and archive
// may be nil; the pipeline then skips duplicate diagnostics and archiving.
func NewService(
	coordinator *Coordinator,
	notifier LeadNotifier,
	duplicates DuplicateFinder,
	archive storage.ArchiveService,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Service {
	return &Service{
		coordinator: coordinator,
		notifier:    notifier,
		duplicates:  duplicates,
		archive:     archive,
		bus:         bus,
		val:         val,
		log:         log,
	}
}

// SubmitLead processes one submission end to end. The returned error is
// apperr-typed; notification and sync failures never appear in it because
// pipeline success is defined by persistence alone.
func (s *Service) SubmitLead(ctx context.Context, typeKey string, fields map[string]string, meta RequestMeta) (transport.SubmitLeadResponse, error) {
	leadType, err := leadtype.Parse(typeKey)
	if err != nil {
		return transport.SubmitLeadResponse{}, apperr.BadRequest("unknown lead type")
	}
	cfg := leadType.Config()

	draft := ExtractDraft(leadType, fields, meta)

	if fieldErrs := ValidateDraft(s.val, draft, cfg); len(fieldErrs) > 0 {
		return transport.SubmitLeadResponse{}, apperr.Validation("submission has invalid fields").WithDetails(fieldErrs)
	}

	s.observeDuplicate(ctx, draft)

	lead, err := s.coordinator.Persist(ctx, draft, cfg)
	if err != nil {
		s.archiveFailedSubmission(ctx, draft, err)
		return transport.SubmitLeadResponse{}, apperr.Unavailable("we could not save your request, please try again")
	}

	outcome := s.notifier.Notify(ctx, lead, cfg)
	s.log.Info("notification fan-out finished",
		"leadId", lead.ID,
		"attempted", outcome.AttemptedCount(),
		"delivered", outcome.DeliveredCount(),
	)

	s.bus.Publish(ctx, events.LeadCaptured{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		LeadType:  lead.Type,
		Source:    lead.Source,
	})

	id := lead.ID
	return transport.SubmitLeadResponse{
		Success: true,
		LeadID:  &id,
		Message: "Thank you, your message has been received.",
	}, nil
}

// observeDuplicate logs when the same email submitted recently. Duplicates
// are never suppressed; each submission still creates its own lead.
func (s *Service) observeDuplicate(ctx context.Context, draft transport.LeadDraft) {
	if s.duplicates == nil || draft.Email == "" {
		return
	}

	dupID, err := s.duplicates.FindRecentDuplicate(ctx, draft.Email, duplicateWindow)
	if err != nil {
		s.log.Warn("duplicate check failed", "error", err)
		return
	}
	if dupID != nil {
		s.log.Info("near-duplicate submission observed",
			"previousLeadId", *dupID,
			"leadType", draft.Type,
		)
	}
}

// archiveFailedSubmission writes the raw submission to object storage so
// it can be recovered by hand after a total persistence failure.
func (s *Service) archiveFailedSubmission(ctx context.Context, draft transport.LeadDraft, cause error) {
	if s.archive == nil {
		s.log.Error("submission lost: persistence failed and no archive configured",
			"leadType", draft.Type,
			"email", draft.Email,
		)
		return
	}

	key, err := s.archive.ArchiveSubmission(ctx, storage.FailedSubmission{
		LeadType:  string(draft.Type),
		Fields:    draft.RawFields,
		SourceURL: draft.SourceURL,
		IPAddress: draft.IPAddress,
		UserAgent: draft.UserAgent,
		FailedAt:  time.Now(),
		LastError: cause.Error(),
	})
	if err != nil {
		s.log.Error("failed to archive submission", "leadType", draft.Type, "error", err)
		return
	}

	s.log.Warn("submission archived for manual recovery", "key", key, "leadType", draft.Type)
}

