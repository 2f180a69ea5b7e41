package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/almira/almira-backend/config"
	"github.com/almira/almira-backend/pkg/logger"
)

// Mailer sends transactional email over SMTP. Failures are the
// caller's concern; most call sites treat them as best-effort.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewMailer(cfg *config.SMTPConfig) *Mailer {
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
	}
}

// Send delivers an HTML email to a single recipient.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	if m.host == "" {
		logger.Warn("SMTP not configured, skipping email", map[string]interface{}{
			"to":      to,
			"subject": subject,
		})
		return nil
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		logger.Error("Failed to send email", err, map[string]interface{}{
			"to":      to,
			"subject": subject,
		})
		return err
	}

	logger.Debug("Email sent", map[string]interface{}{
		"to":      to,
		"subject": subject,
	})
	return nil
}
