package email

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendWelcomeEmail(ctx context.Context, toEmail, toName string) error
}

// ResendConfig holds configuration for the Resend API
type ResendConfig struct {
	APIKey  string
	From    string
	BaseURL string // Base URL for links in the message
}

// EmailServiceImpl implements EmailService on top of Resend
type EmailServiceImpl struct {
	config ResendConfig
	client *resend.Client
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService. Without an API key messages are only logged.
func NewEmailService(config ResendConfig, logger zerolog.Logger) *EmailServiceImpl {
	s := &EmailServiceImpl{
		config: config,
		logger: logger,
	}
	if config.APIKey != "" {
		s.client = resend.NewClient(config.APIKey)
	}
	return s
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">Welcome to the club!</h2>
		<p>Hello {{.Name}},</p>
		<p>Your account is ready. Upcoming events and study resources are waiting for you.</p>
		<div style="text-align: center; margin: 30px 0;">
			<a href="{{.URL}}" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Visit the site</a>
		</div>
		<p>Best regards,<br>The Club Team</p>
	</div>
</body>
</html>`))

// SendWelcomeEmail sends a welcome email to a newly registered user
func (s *EmailServiceImpl) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if s.client == nil {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("toName", toName).
			Msg("Resend API key not configured - welcome email not sent.")
		return nil
	}

	var body strings.Builder
	if err := welcomeTemplate.Execute(&body, map[string]string{
		"Name": toName,
		"URL":  s.config.BaseURL + "/",
	}); err != nil {
		return fmt.Errorf("failed to render welcome email: %w", err)
	}

	return s.send(ctx, toEmail, "Welcome to the club", body.String())
}

func (s *EmailServiceImpl) send(ctx context.Context, toEmail, subject, htmlBody string) error {
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.config.From,
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlBody,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Str("subject", subject).Msg("Failed to send email")
		return fmt.Errorf("resend send failed: %w", err)
	}

	s.logger.Info().Str("messageId", sent.Id).Str("toEmail", toEmail).Str("subject", subject).Msg("Email sent")
	return nil
}
