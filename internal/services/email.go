package services

import (
	"context"
	"fmt"
	"log"

	"ourdays/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendCoupleNotification sends a notification email using the "couple_notification" template.
func (s *emailService) SendCoupleNotification(ctx context.Context, data *domain.CoupleNotificationEmailData) error {
	if data == nil {
		return fmt.Errorf("couple notification data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("couple_notification", data)
	if err != nil {
		return fmt.Errorf("failed to render couple_notification template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send couple notification: %w", err)
	}
	log.Printf("[EMAIL] Couple notification %q sent to %s", data.Title, data.Email)
	return nil
}
