package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	pkglogger "github.com/ovoronin/bloghub/pkg/logger"
)

// EmailService defines the interface for the email collaborator. Delivery
// failures are logged but never retried by callers.
type EmailService interface {
	SendConfirmationEmail(ctx context.Context, email, code string) error
	SendRecoveryEmail(ctx context.Context, email, code string) error
}

// AWSSESEmailService sends templated confirmation and recovery mail via SES.
type AWSSESEmailService struct {
	sesClient   *ses.Client
	fromAddress string
	baseURL     string
	logger      *slog.Logger
}

func NewAWSSESEmailService(region, fromAddress, baseURL string, logger *slog.Logger) (*AWSSESEmailService, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailService{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		baseURL:     baseURL,
		logger:      logger,
	}, nil
}

// SendConfirmationEmail mails the registration confirmation link.
func (s *AWSSESEmailService) SendConfirmationEmail(ctx context.Context, email, code string) error {
	link := fmt.Sprintf("%s/auth/confirm-registration?code=%s", s.baseURL, code)

	htmlBody := fmt.Sprintf(`
<h1>Confirm your email address</h1>
<p>Thank you for registering. Click the link below to finish registration:</p>
<p><a href="%s">Complete registration</a></p>
<p>If you did not register, ignore this message and the account will expire on its own.</p>
`, link)

	textBody := fmt.Sprintf("Confirm your email address by following this link:\n\n%s\n", link)

	return s.send(ctx, email, "Email confirmation", htmlBody, textBody)
}

// SendRecoveryEmail mails the password recovery link.
func (s *AWSSESEmailService) SendRecoveryEmail(ctx context.Context, email, code string) error {
	link := fmt.Sprintf("%s/auth/password-recovery?recoveryCode=%s", s.baseURL, code)

	htmlBody := fmt.Sprintf(`
<h1>Password recovery</h1>
<p>To finish password recovery please follow the link below:</p>
<p><a href="%s">Recover password</a></p>
<p>If you did not request recovery, ignore this message.</p>
`, link)

	textBody := fmt.Sprintf("To finish password recovery please follow this link:\n\n%s\n", link)

	return s.send(ctx, email, "Password recovery", htmlBody, textBody)
}

func (s *AWSSESEmailService) send(ctx context.Context, email, subject, htmlBody, textBody string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send email via SES",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.String("subject", subject),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("email sent",
		slog.String("email", pkglogger.SanitizedEmail(email)),
		slog.String("subject", subject),
		slog.String("message_id", *result.MessageId))

	return nil
}
