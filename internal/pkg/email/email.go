package email

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// ErrNotConfigured is returned when no SMTP host is set. Callers count it as a failed send.
var ErrNotConfigured = errors.New("smtp is not configured")

// EmailService defines the interface for sending emails
type EmailService interface {
	SendLeaveRequest(to string, data LeaveRequestData) error
	SendLeaveStatus(to string, data LeaveStatusData) error
	SendScheduleChange(to string, data ScheduleChangeData) error
	SendAbsenceNotice(to string, data AbsenceNoticeData) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	// backoff is the wait before the second attempt; it doubles after each failure.
	backoff time.Duration
	send    func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		backoff:   time.Second,
		send:      smtp.SendMail,
	}, nil
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return tmpl, nil
}

// SendLeaveRequest tells the employee a leave request was filed or edited in their name.
func (s *emailServiceImpl) SendLeaveRequest(to string, data LeaveRequestData) error {
	return s.sendTemplate(to, data.Subject(), "leave_request.html", data)
}

// SendLeaveStatus tells the employee their request was approved or rejected.
func (s *emailServiceImpl) SendLeaveStatus(to string, data LeaveStatusData) error {
	return s.sendTemplate(to, data.Subject(), "leave_status.html", data)
}

func (s *emailServiceImpl) SendScheduleChange(to string, data ScheduleChangeData) error {
	return s.sendTemplate(to, data.Subject(), "schedule_change.html", data)
}

func (s *emailServiceImpl) SendAbsenceNotice(to string, data AbsenceNoticeData) error {
	return s.sendTemplate(to, data.Subject(), "absence_notice.html", data)
}

func (s *emailServiceImpl) sendTemplate(to, subject, name string, data any) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, name, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return s.sendHTML(to, subject, body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return ErrNotConfigured
	}
	if to == "" {
		return fmt.Errorf("no recipient address")
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.send(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Exponential backoff: 1s, 2s, 4s
		if attempt < maxRetries {
			time.Sleep(s.backoff * time.Duration(1<<(attempt-1)))
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
