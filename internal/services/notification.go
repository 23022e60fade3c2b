package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/teamtrack/backend/internal/config"
	"github.com/teamtrack/backend/pkg/logger"
)

// NotificationService delivers invitation emails over SMTP. When SMTP is
// disabled the delivery is logged and skipped, which keeps local development
// working without a mail server.
type NotificationService struct {
	cfg *config.SMTPConfig
}

func NewNotificationService(cfg *config.SMTPConfig) *NotificationService {
	return &NotificationService{cfg: cfg}
}

// DeliverInvite sends the invitation email for a pending membership.
func (s *NotificationService) DeliverInvite(ctx context.Context, n *InviteNotification) error {
	if !s.cfg.Enabled {
		logger.Info().
			Str("email", n.Email).
			Str("project", n.ProjectName).
			Msg("smtp disabled, skipping invite email")
		return nil
	}

	subject := fmt.Sprintf("You have been invited to %s", n.ProjectName)
	body := fmt.Sprintf(
		"You have been invited to join the project %q.\r\n\r\n"+
			"Open the app and accept the invitation, or use token %s.\r\n",
		n.ProjectName, n.InviteToken)

	msg := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + n.Email,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if s.cfg.UseTLS {
		return s.sendTLS(addr, auth, n.Email, []byte(msg))
	}
	return smtp.SendMail(addr, auth, s.cfg.From, []string{n.Email}, []byte(msg))
}

func (s *NotificationService) sendTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
