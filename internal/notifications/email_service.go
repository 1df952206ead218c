package notifications

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"strconv"
	"time"
)

// EmailService renders and delivers a single notification.
type EmailService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
	SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
}

type SMTPEmailService struct {
	config *SMTPConfig
}

func NewSMTPEmailService(config *SMTPConfig) (*SMTPEmailService, error) {
	if err := validateSMTPConfig(config); err != nil {
		return nil, err
	}
	return &SMTPEmailService{config: config}, nil
}

func validateSMTPConfig(config *SMTPConfig) error {
	if config == nil {
		return fmt.Errorf("SMTP config is nil")
	}
	if config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if config.Username == "" {
		return fmt.Errorf("SMTP username is required")
	}
	if config.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

func (s *SMTPEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	htmlBody, textBody := renderContent(notification)
	return s.SendHTML(ctx, notification.RecipientEmail, notification.Subject, htmlBody, textBody)
}

func (s *SMTPEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	message := s.buildMessage(to, subject, htmlBody, textBody)

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var err error
	if s.config.UseTLS {
		err = s.sendWithSTARTTLS(addr, auth, to, message)
	} else {
		err = smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	}
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (s *SMTPEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	tlsConfig := &tls.Config{ServerName: s.config.Host}
	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}

func (s *SMTPEmailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)

	message := fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	message += fmt.Sprintf("To: %s\r\n", to)
	message += fmt.Sprintf("Subject: %s\r\n", subject)
	message += "MIME-Version: 1.0\r\n"
	message += fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	message += fmt.Sprintf("Content-Type: multipart/alternative; boundary=%s\r\n", boundary)
	message += "\r\n"

	if textBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary)
		message += "Content-Type: text/plain; charset=UTF-8\r\n\r\n"
		message += textBody + "\r\n"
	}

	if htmlBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary)
		message += "Content-Type: text/html; charset=UTF-8\r\n\r\n"
		message += htmlBody + "\r\n"
	}

	message += fmt.Sprintf("--%s--\r\n", boundary)
	return []byte(message)
}

func renderContent(notification *EmailNotification) (htmlBody, textBody string) {
	data := notification.TemplateData

	switch notification.Type {
	case NotificationTypeSpotAvailable:
		htmlBody = fmt.Sprintf(`
			<h2>A parking spot just opened up</h2>
			<p>Hi %s,</p>
			<p>A spot has become available at <strong>%v</strong>.</p>
			<p>Spots free right now: <strong>%v</strong></p>
			<p>Book quickly, availability changes fast.</p>
			<p>Parkly Team</p>
		`, notification.RecipientName, data["venue_name"], data["available_spots"])

		textBody = fmt.Sprintf(
			"Hi %s,\n\nA spot has become available at %v.\nSpots free right now: %v\nBook quickly, availability changes fast.\n\nParkly Team",
			notification.RecipientName, data["venue_name"], data["available_spots"])

	case NotificationTypeReservationConfirmed:
		htmlBody = fmt.Sprintf(`
			<h2>Reservation confirmed</h2>
			<p>Hi %s,</p>
			<p>Your parking reservation at <strong>%v</strong> is confirmed.</p>
			<p>Reference: <strong>%v</strong></p>
			<p>From: %v<br>To: %v</p>
			<p>Total: $%v</p>
			<p>Parkly Team</p>
		`, notification.RecipientName, data["venue_name"], data["reservation_ref"],
			data["start_time"], data["end_time"], data["total_amount"])

		textBody = fmt.Sprintf(
			"Hi %s,\n\nYour parking reservation at %v is confirmed.\nReference: %v\nFrom: %v\nTo: %v\nTotal: $%v\n\nParkly Team",
			notification.RecipientName, data["venue_name"], data["reservation_ref"],
			data["start_time"], data["end_time"], data["total_amount"])

	case NotificationTypeReservationCancelled:
		htmlBody = fmt.Sprintf(`
			<h2>Reservation cancelled</h2>
			<p>Hi %s,</p>
			<p>Your parking reservation <strong>%v</strong> at <strong>%v</strong> has been cancelled.</p>
			<p>Parkly Team</p>
		`, notification.RecipientName, data["reservation_ref"], data["venue_name"])

		textBody = fmt.Sprintf(
			"Hi %s,\n\nYour parking reservation %v at %v has been cancelled.\n\nParkly Team",
			notification.RecipientName, data["reservation_ref"], data["venue_name"])

	default:
		htmlBody = fmt.Sprintf(`
			<h2>%s</h2>
			<p>Hi %s,</p>
			<p>This is a notification from Parkly.</p>
			<p>Parkly Team</p>
		`, notification.Subject, notification.RecipientName)

		textBody = fmt.Sprintf(
			"Hi %s,\n\nThis is a notification from Parkly.\n\nParkly Team",
			notification.RecipientName)
	}

	return htmlBody, textBody
}

// LogEmailService is used when SMTP is not configured (local development).
// Notifications are logged instead of delivered.
type LogEmailService struct{}

func NewLogEmailService() *LogEmailService {
	return &LogEmailService{}
}

func (s *LogEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	log.Printf("[email:log] %s to %s (%s): %s",
		notification.Type, notification.RecipientEmail, notification.RecipientName, notification.Subject)
	return nil
}

func (s *LogEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	log.Printf("[email:log] to=%s subject=%s", to, subject)
	return nil
}
