// Package service provides lead capture. Leads arrive from the public lead
// form, from the assistant's create_lead tool, and as Priority Inquiries when
// a booking attempt could not be persisted.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"tripdesk_backend/internal/events"
	"tripdesk_backend/internal/leads/repository"
	"tripdesk_backend/internal/leads/transport"
	"tripdesk_backend/internal/scheduler"
	"tripdesk_backend/platform/logger"
	"tripdesk_backend/platform/phone"
	"tripdesk_backend/platform/sanitize"
)

// Lead sources.
const (
	SourceWeb       = "web"
	SourceAssistant = "assistant"
	SourceFallback  = "assistant_fallback"
)

// priorityFollowUpDelay is how long ops get before a fallback lead is
// escalated by the follow-up task.
const priorityFollowUpDelay = 4 * time.Hour

// PriorityInquiryParams captures the trip plan a failed booking attempt was
// carrying.
type PriorityInquiryParams struct {
	Name        string
	Mobile      string
	From        string
	To          string
	TripDays    int
	PlanSummary string
	Reason      string
}

// Service provides business logic for leads.
type Service struct {
	repo      repository.Repository
	bus       events.Bus
	followUps scheduler.FollowUpScheduler
	log       *logger.Logger
}

// New creates a new leads service. followUps may be nil when no task queue is
// configured.
func New(repo repository.Repository, bus events.Bus, followUps scheduler.FollowUpScheduler, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, followUps: followUps, log: log}
}

// CreateLead captures a contact-only inquiry. Mobiles are normalized to
// E.164 and free-text fields sanitized before persisting.
func (s *Service) CreateLead(ctx context.Context, req transport.CreateLeadRequest, source string) (transport.LeadResponse, error) {
	if source == "" {
		source = SourceWeb
	}
	days := req.TripDays
	if days < 1 {
		days = 1
	}

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		Name:         sanitize.Text(strings.TrimSpace(req.Name)),
		Mobile:       phone.NormalizeE164(req.Mobile),
		FromLocation: sanitize.Text(strings.TrimSpace(req.FromLocation)),
		ToLocation:   sanitize.Text(strings.TrimSpace(req.ToLocation)),
		TripDays:     days,
		PlanSummary:  sanitize.TextPtr(req.PlanSummary),
		Priority:     false,
		Source:       source,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadCreated{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			Name:      lead.Name,
			Mobile:    lead.Mobile,
			Priority:  false,
		})
	}

	s.log.Info("lead created", "id", lead.ID, "source", source)
	return toLeadResponse(lead), nil
}

// CreatePriorityInquiry captures the lead a failed booking attempt falls back
// to. It carries the planned trip so ops can follow up by hand, and schedules
// a follow-up task.
func (s *Service) CreatePriorityInquiry(ctx context.Context, params PriorityInquiryParams) (transport.LeadResponse, error) {
	days := params.TripDays
	if days < 1 {
		days = 1
	}

	summary := sanitize.Text(strings.TrimSpace(params.PlanSummary))
	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		Name:         sanitize.Text(strings.TrimSpace(params.Name)),
		Mobile:       phone.NormalizeE164(params.Mobile),
		FromLocation: sanitize.Text(strings.TrimSpace(params.From)),
		ToLocation:   sanitize.Text(strings.TrimSpace(params.To)),
		TripDays:     days,
		PlanSummary:  &summary,
		Priority:     true,
		Source:       SourceFallback,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.PriorityInquiryCreated{
			BaseEvent:   events.NewBaseEvent(),
			LeadID:      lead.ID,
			Name:        lead.Name,
			Mobile:      lead.Mobile,
			PlanSummary: summary,
			Reason:      params.Reason,
		})
	}

	if s.followUps != nil {
		payload := scheduler.LeadFollowUpPayload{LeadID: lead.ID.String()}
		if err := s.followUps.ScheduleLeadFollowUp(ctx, payload, time.Now().Add(priorityFollowUpDelay)); err != nil {
			s.log.Warn("lead follow-up scheduling failed", "leadId", lead.ID, "error", err)
		}
	}

	s.log.Info("priority inquiry created", "id", lead.ID, "reason", params.Reason)
	return toLeadResponse(lead), nil
}

// GetLead retrieves a lead by ID.
func (s *Service) GetLead(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return toLeadResponse(lead), nil
}

// ListLeads lists leads matching the filter.
func (s *Service) ListLeads(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = 20
	}

	items, total, err := s.repo.List(ctx, repository.ListLeadsParams{
		Status:   req.Status,
		Priority: req.Priority,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	responses := make([]transport.LeadResponse, len(items))
	for i, lead := range items {
		responses[i] = toLeadResponse(lead)
	}
	return transport.LeadListResponse{Items: responses, Total: total, Page: page, Limit: limit}, nil
}

// CloseLead marks a lead handled.
func (s *Service) CloseLead(ctx context.Context, id uuid.UUID) error {
	return s.repo.UpdateStatus(ctx, id, repository.StatusClosed)
}

func toLeadResponse(l repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:           l.ID,
		Name:         l.Name,
		Mobile:       l.Mobile,
		FromLocation: l.FromLocation,
		ToLocation:   l.ToLocation,
		TripDays:     l.TripDays,
		PlanSummary:  l.PlanSummary,
		Priority:     l.Priority,
		Source:       l.Source,
		Status:       l.Status,
		CreatedAt:    l.CreatedAt,
	}
}
