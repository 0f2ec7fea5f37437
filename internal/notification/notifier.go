// Package notification dispatches lead notifications to the assigned
// agent, the administrative recipient, and the submitter. Delivery is
// best-effort: channel failures are logged, tracked per channel, and
// never surfaced to the submission caller.
package notification

import (
	"context"
	"time"

	"realty_leads_backend/internal/agents"
	"realty_leads_backend/internal/email"
	"realty_leads_backend/internal/leads/transport"
	"realty_leads_backend/internal/leadtype"
	"realty_leads_backend/platform/config"
	"realty_leads_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// Channel identifies one notification recipient class.
type Channel string

const (
	ChannelAgent     Channel = "agent"
	ChannelAdmin     Channel = "admin"
	ChannelSubmitter Channel = "submitter"
)

// ChannelOutcome records one delivery attempt.
type ChannelOutcome struct {
	Channel   Channel
	Attempted bool
	Delivered bool
}

// Outcome is the per-channel delivery record for one lead. It is not
// persisted; it exists for diagnostics and tests.
type Outcome struct {
	Channels []ChannelOutcome
}

// AttemptedCount returns how many channels were attempted.
func (o Outcome) AttemptedCount() int {
	n := 0
	for _, ch := range o.Channels {
		if ch.Attempted {
			n++
		}
	}
	return n
}

// DeliveredCount returns how many channels reported successful delivery.
func (o Outcome) DeliveredCount() int {
	n := 0
	for _, ch := range o.Channels {
		if ch.Delivered {
			n++
		}
	}
	return n
}

// Notifier fans out notifications for persisted leads.
type Notifier struct {
	sender         email.Sender
	directory      agents.Directory
	adminAddress   string
	channelTimeout time.Duration
	log            *logger.Logger
}

// NewNotifier creates a notification fan-out.
func NewNotifier(sender email.Sender, directory agents.Directory, cfg config.NotificationConfig, log *logger.Logger) *Notifier {
	return &Notifier{
		sender:         sender,
		directory:      directory,
		adminAddress:   cfg.GetAdminNotifyAddress(),
		channelTimeout: cfg.GetChannelTimeout(),
		log:            log,
	}
}

// Notify dispatches the three channels concurrently, each isolated under
// its own timeout so one slow transport cannot stall the others. It always
// returns an Outcome; it never returns an error, since the lead is already
// persisted by the time it runs.
func (n *Notifier) Notify(ctx context.Context, lead transport.Lead, cfg leadtype.Config) Outcome {
	agentAddress := n.resolveAgentAddress(ctx, lead)

	body, err := renderBody(cfg.Template, lead)
	if err != nil {
		n.log.Error("failed to render notification body", "template", cfg.Template, "leadId", lead.ID, "error", err)
	}
	confirmation, confErr := renderConfirmation(lead)
	if confErr != nil {
		n.log.Error("failed to render confirmation body", "leadId", lead.ID, "error", confErr)
	}

	subject := "New lead: " + lead.FullName()

	// Fixed slots per channel so goroutines never share a slot.
	outcomes := []ChannelOutcome{
		{Channel: ChannelAgent},
		{Channel: ChannelAdmin},
		{Channel: ChannelSubmitter},
	}

	var g errgroup.Group

	if agentAddress != "" && err == nil {
		g.Go(func() error {
			outcomes[0].Attempted = true
			outcomes[0].Delivered = n.deliver(ctx, ChannelAgent, agentAddress, subject, body)
			return nil
		})
	}

	if n.adminAddress != "" && err == nil {
		g.Go(func() error {
			outcomes[1].Attempted = true
			outcomes[1].Delivered = n.deliver(ctx, ChannelAdmin, n.adminAddress, subject, body)
			return nil
		})
	}

	if lead.Email != "" && confErr == nil {
		g.Go(func() error {
			outcomes[2].Attempted = true
			outcomes[2].Delivered = n.deliver(ctx, ChannelSubmitter, lead.Email, "We received your message", confirmation)
			return nil
		})
	}

	_ = g.Wait()

	n.log.LeadEvent("notifications_dispatched", lead.ID.String(), string(lead.Type))

	return Outcome{Channels: outcomes}
}

// resolveAgentAddress looks up the assigned agent's contact address.
// A directory miss leaves the agent channel unattempted.
func (n *Notifier) resolveAgentAddress(ctx context.Context, lead transport.Lead) string {
	if lead.AssignedTo == "" {
		return ""
	}

	address, err := n.directory.ResolveContactAddress(ctx, lead.AssignedTo)
	if err != nil {
		n.log.Warn("could not resolve agent contact address",
			"agentRef", lead.AssignedTo,
			"leadId", lead.ID,
			"error", err,
		)
		return ""
	}
	return address
}

// deliver sends one message under the per-channel timeout and reports
// whether delivery succeeded.
func (n *Notifier) deliver(ctx context.Context, channel Channel, to, subject, body string) bool {
	sendCtx, cancel := context.WithTimeout(ctx, n.channelTimeout)
	defer cancel()

	if err := n.sender.Send(sendCtx, to, subject, body); err != nil {
		n.log.DeliveryError(string(channel), to, err)
		return false
	}
	return true
}
