// Package email delivers operational alert emails over SMTP.
package email

import "context"

// Sender delivers the ops-facing alert emails.
type Sender interface {
	// SendPriorityInquiryAlert notifies ops that a booking attempt fell back
	// to a Priority Inquiry lead.
	SendPriorityInquiryAlert(ctx context.Context, toEmail, leadName, mobile, planSummary, reason string) error
	// SendLeadFollowUpAlert reminds ops about a priority lead still open
	// after its follow-up delay.
	SendLeadFollowUpAlert(ctx context.Context, toEmail, leadName, mobile, planSummary string) error
}
