package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"

	"tripdesk_backend/platform/config"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// SendPriorityInquiryAlert notifies ops about a booking fallback.
func (s *SMTPSender) SendPriorityInquiryAlert(ctx context.Context, toEmail, leadName, mobile, planSummary, reason string) error {
	content, err := renderAlert(alertData{
		Heading:     "Priority Inquiry created",
		Intro:       "A booking attempt could not be completed and was captured as a priority lead.",
		LeadName:    leadName,
		Mobile:      mobile,
		PlanSummary: planSummary,
		Reason:      reason,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectPriorityInquiry, content)
}

// SendLeadFollowUpAlert reminds ops about a still-open priority lead.
func (s *SMTPSender) SendLeadFollowUpAlert(ctx context.Context, toEmail, leadName, mobile, planSummary string) error {
	content, err := renderAlert(alertData{
		Heading:     "Priority lead still open",
		Intro:       "This priority lead has not been handled yet.",
		LeadName:    leadName,
		Mobile:      mobile,
		PlanSummary: planSummary,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectLeadFollowUp, content)
}

// Compile-time check that SMTPSender implements Sender
var _ Sender = (*SMTPSender)(nil)
