package email

import (
	"fmt"
	"html/template"
	"strings"
)

const (
	subjectPriorityInquiry = "Priority Inquiry: booking fallback needs follow-up"
	subjectLeadFollowUp    = "Reminder: priority lead still open"
)

var alertTemplate = template.Must(template.New("alert").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Helvetica, Arial, sans-serif; color: #1a1a1a;">
	<h2>{{.Heading}}</h2>
	<p>{{.Intro}}</p>
	<table cellpadding="4">
		<tr><td><strong>Name</strong></td><td>{{.LeadName}}</td></tr>
		<tr><td><strong>Mobile</strong></td><td>{{.Mobile}}</td></tr>
		{{if .PlanSummary}}<tr><td><strong>Plan</strong></td><td>{{.PlanSummary}}</td></tr>{{end}}
		{{if .Reason}}<tr><td><strong>Reason</strong></td><td>{{.Reason}}</td></tr>{{end}}
	</table>
</body>
</html>`))

type alertData struct {
	Heading     string
	Intro       string
	LeadName    string
	Mobile      string
	PlanSummary string
	Reason      string
}

func renderAlert(data alertData) (string, error) {
	var b strings.Builder
	if err := alertTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render alert email: %w", err)
	}
	return b.String(), nil
}
