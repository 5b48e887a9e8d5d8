package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/resend/resend-go/v2"
)

// confirmationJob is one queued confirmation email.
type confirmationJob struct {
	email string
	name  string
	token string
}

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
	queue     chan confirmationJob
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	s := &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
		queue:     make(chan confirmationJob, 64),
	}

	go s.worker()

	return s
}

// EnqueueConfirmation hands the confirmation email to the background
// worker and returns immediately. Delivery is best-effort: there is no
// return channel, failures are logged by the worker, and a full queue
// drops the job rather than blocking the caller.
func (s *EmailService) EnqueueConfirmation(email, name, token string) {
	select {
	case s.queue <- confirmationJob{email: email, name: name, token: token}:
	default:
		slog.Warn("email queue full, dropping confirmation email", "to", email)
	}
}

func (s *EmailService) worker() {
	for job := range s.queue {
		err := s.SendConfirmationEmail(job.email, job.name, job.token)
		if err != nil {
			slog.Error("failed to send confirmation email", "email", job.email, "error", err)
		}
	}
}

func (s *EmailService) SendConfirmationEmail(email, name, token string) error {
	confirmURL := fmt.Sprintf("%s/auth/confirm-email?email=%s&token=%s",
		s.appURL, url.QueryEscape(email), url.QueryEscape(token))
	subject, body := confirmationEmailTemplate(name, confirmURL, s.appName)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "confirmation", "to", email, "subject", subject, "url", confirmURL)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", "confirmation", "to", email)
	}
	return err
}
