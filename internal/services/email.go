package services

import (
	"context"
	"fmt"

	"voluntapp/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService creates an EmailService backed by the given mailer and
// template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

func (s *emailService) SendApplicationDecision(_ context.Context, data *domain.ApplicationDecisionEmailData) error {
	subject, html, text, err := s.renderer.Render("application_decision", data)
	if err != nil {
		return fmt.Errorf("render application decision email: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, html, text); err != nil {
		return fmt.Errorf("send application decision email: %w", err)
	}
	return nil
}
