package auth

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"net/url"
	"strings"
	"text/template"

	"github.com/rs/zerolog"
)

var resetTemplate = template.Must(template.New("reset").Parse(`Subject: Atur ulang kata sandi MILBoard

Halo,

Kami menerima permintaan untuk mengatur ulang kata sandi akun MILBoard Anda.

Buka tautan berikut untuk membuat kata sandi baru:
{{.ResetURL}}

Tautan ini berlaku selama {{.TTL}}.

Jika Anda tidak meminta ini, abaikan email ini.

Salam,
Tim MILBoard`))

// EmailConfig holds SMTP configuration.
type EmailConfig struct {
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	FromEmail     string
	PublicBaseURL string
	TokenTTL      string
}

// EmailService handles sending emails via SMTP.
type EmailService struct {
	cfg      EmailConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	logger   zerolog.Logger
}

// NewEmailService creates an email service.
func NewEmailService(cfg EmailConfig, logger zerolog.Logger) *EmailService {
	if cfg.TokenTTL == "" {
		cfg.TokenTTL = "1 jam"
	}
	return &EmailService{
		cfg:      cfg,
		sendMail: smtp.SendMail,
		logger:   logger.With().Str("component", "email").Logger(),
	}
}

// ResetURL builds the link the frontend uses to finish a reset.
func (e *EmailService) ResetURL(token string) string {
	return strings.TrimRight(e.cfg.PublicBaseURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
}

// SendPasswordResetEmail sends a password reset email with the reset token.
func (e *EmailService) SendPasswordResetEmail(ctx context.Context, toEmail, resetToken string) error {
	if e.cfg.SMTPHost == "" || e.cfg.SMTPPort == 0 {
		return fmt.Errorf("email service not configured")
	}

	var body bytes.Buffer
	if err := resetTemplate.Execute(&body, map[string]string{
		"ResetURL": e.ResetURL(resetToken),
		"TTL":      e.cfg.TokenTTL,
	}); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", e.cfg.SMTPHost, e.cfg.SMTPPort)
	var auth smtp.Auth
	if e.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", e.cfg.SMTPUsername, e.cfg.SMTPPassword, e.cfg.SMTPHost)
	}

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\n%s\r\n", e.cfg.FromEmail, toEmail, body.String()))

	if err := e.sendMail(addr, auth, e.cfg.FromEmail, []string{toEmail}, msg); err != nil {
		e.logger.Error().Err(err).Str("to", toEmail).Msg("failed to send password reset email")
		return fmt.Errorf("send email: %w", err)
	}

	e.logger.Info().Str("to", toEmail).Msg("password reset email sent")
	return nil
}
