package services

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/username/expensio/backend/src/config"
	"github.com/username/expensio/backend/src/logger"
)

// NewEmailService selects the mail provider from config. Incomplete
// provider configuration falls back to the mock service so the API keeps
// working without credentials.
func NewEmailService(cfg *config.AppConfig) EmailService {
	provider := strings.ToLower(cfg.EmailServiceProvider)
	logger.L.Info("Initializing email service", "provider", provider)

	switch provider {
	case "mailgun":
		if cfg.MailgunDomain == "" || cfg.MailgunPrivateAPIKey == "" || cfg.SenderEmail == "" {
			logger.L.Warn("Mailgun configuration incomplete (Domain, API Key, or SenderEmail missing). Falling back to MockEmailService.")
			return &MockEmailService{}
		}
		mg := mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunPrivateAPIKey)
		logger.L.Info("Mailgun client initialized", "domain", cfg.MailgunDomain)
		return &MailgunEmailService{
			mg:          mg,
			senderEmail: cfg.SenderEmail,
			senderName:  cfg.SenderName,
		}
	case "smtp":
		if cfg.SMTPServer == "" || cfg.SMTPUser == "" || cfg.SMTPPassword == "" || cfg.SenderEmail == "" {
			logger.L.Warn("SMTP configuration incomplete. Falling back to MockEmailService.")
			return &MockEmailService{}
		}
		return &SMTPEmailService{
			SMTPServer:   cfg.SMTPServer,
			SMTPPort:     cfg.SMTPPort,
			SMTPUser:     cfg.SMTPUser,
			SMTPPassword: cfg.SMTPPassword,
			SenderEmail:  cfg.SenderEmail,
		}
	default:
		logger.L.Info("Defaulting to MockEmailService.")
		return &MockEmailService{}
	}
}

type SMTPEmailService struct {
	SMTPServer   string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SenderEmail  string
}

func (s *SMTPEmailService) SendReport(toEmail, subject, body string) error {
	from := s.SenderEmail
	to := []string{toEmail}

	header := make(map[string]string)
	header["From"] = from
	header["To"] = toEmail
	header["Subject"] = subject
	header["MIME-version"] = "1.0"
	header["Content-Type"] = "text/plain; charset=\"UTF-8\""
	message := ""
	for k, v := range header {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + body

	auth := smtp.PlainAuth("", s.SMTPUser, s.SMTPPassword, s.SMTPServer)
	addr := fmt.Sprintf("%s:%d", s.SMTPServer, s.SMTPPort)
	if err := smtp.SendMail(addr, auth, from, to, []byte(message)); err != nil {
		logger.L.Error("Failed to send expense report via SMTP", "error", err, "to", toEmail)
		return fmt.Errorf("failed to send expense report via SMTP: %w", err)
	}
	logger.L.Info("Expense report sent successfully via SMTP", "to", toEmail)
	return nil
}

type MailgunEmailService struct {
	mg          mailgun.Mailgun
	senderEmail string
	senderName  string
}

func (s *MailgunEmailService) SendReport(toEmail, subject, body string) error {
	from := fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail)

	message := s.mg.NewMessage(from, subject, body, toEmail)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()
	resp, id, err := s.mg.Send(ctx, message)
	if err != nil {
		logger.L.Error("Failed to send expense report via Mailgun", "error", err, "to", toEmail, "mailgunResp", resp, "mailgunId", id)
		return fmt.Errorf("mailgun send failed: %w. Response: %s", err, resp)
	}
	logger.L.Info("Expense report sent successfully via Mailgun", "to", toEmail, "id", id)
	return nil
}

type MockEmailService struct{}

func (m *MockEmailService) SendReport(toEmail, subject, body string) error {
	logger.L.Info("MockEmailService: Would send expense report.", "to", toEmail, "subject", subject, "body", body)
	return nil
}
