package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// ApplicationDecisionEmailData holds data for the accepted/declined
// notification sent to an applicant.
type ApplicationDecisionEmailData struct {
	Email            string
	FirstName        string
	OpportunityTitle string
	OrganizationName string
	Decision         string // "accepted" or "declined"
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendApplicationDecision(ctx context.Context, data *ApplicationDecisionEmailData) error
}
