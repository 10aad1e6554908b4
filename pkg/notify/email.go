package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"
)

// EmailConfig holds the SMTP settings for the email sink.
type EmailConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// EmailSink delivers email-channel reminders over SMTP and falls back to
// the wrapped sink for every other channel.
type EmailSink struct {
	config   EmailConfig
	fallback Sink
	send     func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailSink(config EmailConfig, fallback Sink) *EmailSink {
	return &EmailSink{
		config:   config,
		fallback: fallback,
		send:     smtp.SendMail,
	}
}

func (s *EmailSink) Notify(ctx context.Context, channel Channel, recipient string, summary *VehicleSummary) error {
	if channel != ChannelEmail {
		return s.fallback.Notify(ctx, channel, recipient, summary)
	}

	subject := fmt.Sprintf("Emissions test reminder for unit %s", summary.UnitNumber)
	body := fmt.Sprintf("Unit %s (VIN %s) has an emissions test coming up.", summary.UnitNumber, summary.VIN)
	if summary.NextDueDate != nil {
		body = fmt.Sprintf("%s The test is due on %s.", body, summary.NextDueDate.Format("January 2, 2006"))
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", recipient)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	if err := s.send(addr, auth, s.config.FromEmail, []string{recipient}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email reminder: %w", err)
	}

	return nil
}
