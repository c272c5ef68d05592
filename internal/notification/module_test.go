package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"tripdesk_backend/internal/events"
	"tripdesk_backend/platform/logger"
)

type fakeSender struct {
	priority []string
	followUp []string
}

func (f *fakeSender) SendPriorityInquiryAlert(_ context.Context, toEmail, _, _, _, _ string) error {
	f.priority = append(f.priority, toEmail)
	return nil
}

func (f *fakeSender) SendLeadFollowUpAlert(_ context.Context, toEmail, _, _, _ string) error {
	f.followUp = append(f.followUp, toEmail)
	return nil
}

type testEmailCfg struct{ enabled bool }

func (c testEmailCfg) GetSMTPHost() string {
	if c.enabled {
		return "smtp.example.com"
	}
	return ""
}
func (c testEmailCfg) GetSMTPPort() int            { return 587 }
func (c testEmailCfg) GetSMTPUsername() string     { return "" }
func (c testEmailCfg) GetSMTPPassword() string     { return "" }
func (c testEmailCfg) GetEmailFromName() string    { return "TripDesk" }
func (c testEmailCfg) GetEmailFromAddress() string { return "noreply@example.com" }
func (c testEmailCfg) GetOpsAlertAddress() string {
	if c.enabled {
		return "ops@example.com"
	}
	return ""
}
func (c testEmailCfg) IsEmailEnabled() bool { return c.enabled }

func TestPriorityInquiryAlertsOps(t *testing.T) {
	sender := &fakeSender{}
	m := New(sender, testEmailCfg{enabled: true}, logger.New("development"))

	err := m.Handle(context.Background(), events.PriorityInquiryCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		Name:      "Asha",
		Mobile:    "+919876543210",
		Reason:    "booking persistence failed",
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(sender.priority) != 1 || sender.priority[0] != "ops@example.com" {
		t.Fatalf("priority alerts = %v, want one to ops", sender.priority)
	}
}

func TestFollowUpAlertsOps(t *testing.T) {
	sender := &fakeSender{}
	m := New(sender, testEmailCfg{enabled: true}, logger.New("development"))

	err := m.Handle(context.Background(), events.LeadFollowUpDue{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		Name:      "Asha",
		Mobile:    "+919876543210",
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(sender.followUp) != 1 {
		t.Fatalf("follow-up alerts = %v, want one", sender.followUp)
	}
}

func TestAlertsSkippedWhenEmailDisabled(t *testing.T) {
	sender := &fakeSender{}
	m := New(sender, testEmailCfg{enabled: false}, logger.New("development"))

	err := m.Handle(context.Background(), events.PriorityInquiryCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(sender.priority) != 0 {
		t.Fatal("alert must be dropped when email is not configured")
	}
}
