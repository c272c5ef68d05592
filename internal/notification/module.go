// Package notification subscribes to domain events and sends operational
// alert emails. Domain modules publish events without knowing about email
// providers or templates.
package notification

import (
	"context"

	"tripdesk_backend/internal/email"
	"tripdesk_backend/internal/events"
	"tripdesk_backend/platform/config"
	"tripdesk_backend/platform/logger"
)

// Module handles notification-related event subscriptions.
type Module struct {
	sender email.Sender
	cfg    config.EmailConfig
	log    *logger.Logger
}

// New creates a new notification module. sender may be nil when SMTP is not
// configured; handlers then log and drop the alert.
func New(sender email.Sender, cfg config.EmailConfig, log *logger.Logger) *Module {
	return &Module{sender: sender, cfg: cfg, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterHandlers subscribes to the relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.PriorityInquiryCreated{}.EventName(), m)
	bus.Subscribe(events.LeadFollowUpDue{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.PriorityInquiryCreated:
		return m.handlePriorityInquiryCreated(ctx, e)
	case events.LeadFollowUpDue:
		return m.handleLeadFollowUpDue(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handlePriorityInquiryCreated(ctx context.Context, e events.PriorityInquiryCreated) error {
	if m.sender == nil || !m.cfg.IsEmailEnabled() {
		m.log.Warn("priority inquiry alert skipped, email not configured", "leadId", e.LeadID)
		return nil
	}

	if err := m.sender.SendPriorityInquiryAlert(ctx, m.cfg.GetOpsAlertAddress(), e.Name, e.Mobile, e.PlanSummary, e.Reason); err != nil {
		m.log.Error("failed to send priority inquiry alert", "leadId", e.LeadID, "error", err)
		return err
	}
	m.log.Info("priority inquiry alert sent", "leadId", e.LeadID)
	return nil
}

func (m *Module) handleLeadFollowUpDue(ctx context.Context, e events.LeadFollowUpDue) error {
	if m.sender == nil || !m.cfg.IsEmailEnabled() {
		m.log.Warn("lead follow-up alert skipped, email not configured", "leadId", e.LeadID)
		return nil
	}

	if err := m.sender.SendLeadFollowUpAlert(ctx, m.cfg.GetOpsAlertAddress(), e.Name, e.Mobile, e.PlanSummary); err != nil {
		m.log.Error("failed to send lead follow-up alert", "leadId", e.LeadID, "error", err)
		return err
	}
	m.log.Info("lead follow-up alert sent", "leadId", e.LeadID)
	return nil
}

// Compile-time check that Module implements events.Handler
var _ events.Handler = (*Module)(nil)
