// Copyright (c) 2026 Study Partner. All rights reserved.

/*
Package email delivers transactional mail over SMTP.

Delivery is best-effort: callers fire messages from goroutines and a failed
send never fails the originating API request. When no SMTP host is configured
the mailer runs in development mode and logs the outbound links instead of
sending, so the full flows stay testable without a relay.
*/
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"

	"github.com/studypartner/api/internal/platform/ctxutil"
)

// Mailer sends account lifecycle emails (verification, password reset).
type Mailer struct {
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
	from     string

	// backendBaseURL hosts the verification endpoint; frontendURL hosts
	// the password reset form.
	backendBaseURL string
	frontendURL    string
}

// Config carries the SMTP relay settings and public URLs for links.
type Config struct {
	Host           string
	Port           string
	User           string
	Pass           string
	From           string
	BackendBaseURL string
	FrontendURL    string
}

// NewMailer builds a Mailer from relay configuration.
func NewMailer(cfg Config) *Mailer {
	return &Mailer{
		smtpHost:       cfg.Host,
		smtpPort:       cfg.Port,
		smtpUser:       cfg.User,
		smtpPass:       cfg.Pass,
		from:           cfg.From,
		backendBaseURL: cfg.BackendBaseURL,
		frontendURL:    cfg.FrontendURL,
	}
}

// SendVerification emails the account activation link.
//
// Designed to be called from a goroutine; the error return exists for tests
// and for callers that want to log it.
func (m *Mailer) SendVerification(ctx context.Context, toEmail, token string) error {
	logger := ctxutil.GetLogger(ctx)

	verificationLink := fmt.Sprintf("%s/api/auth/verify?token=%s", m.backendBaseURL, token)

	if m.devMode() {
		logger.InfoContext(ctx, "email_dev_mode_verification",
			slog.String("to", toEmail),
			slog.String("link", verificationLink),
		)
		return nil
	}

	body, err := renderTemplate(verificationTemplate, map[string]string{"Link": verificationLink})
	if err != nil {
		return fmt.Errorf("email: render verification template: %w", err)
	}

	if err := m.send(toEmail, "Verify your Study Partner account", body); err != nil {
		logger.ErrorContext(ctx, "verification_email_failed",
			slog.String("to", toEmail),
			slog.Any("error", err),
		)
		return fmt.Errorf("email: send verification: %w", err)
	}

	logger.InfoContext(ctx, "verification_email_sent", slog.String("to", toEmail))
	return nil
}

// SendPasswordReset emails the password reset link.
//
// Designed to be called from a goroutine.
func (m *Mailer) SendPasswordReset(ctx context.Context, toEmail, token string) error {
	logger := ctxutil.GetLogger(ctx)

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", m.frontendURL, token)

	if m.devMode() {
		logger.InfoContext(ctx, "email_dev_mode_password_reset",
			slog.String("to", toEmail),
			slog.String("link", resetLink),
		)
		return nil
	}

	body, err := renderTemplate(passwordResetTemplate, map[string]string{"Link": resetLink})
	if err != nil {
		return fmt.Errorf("email: render reset template: %w", err)
	}

	if err := m.send(toEmail, "Reset your Study Partner password", body); err != nil {
		logger.ErrorContext(ctx, "password_reset_email_failed",
			slog.String("to", toEmail),
			slog.Any("error", err),
		)
		return fmt.Errorf("email: send password reset: %w", err)
	}

	logger.InfoContext(ctx, "password_reset_email_sent", slog.String("to", toEmail))
	return nil
}

// devMode reports whether the mailer should log links instead of sending.
func (m *Mailer) devMode() bool {
	return m.smtpHost == ""
}

// send relays a single HTML message through the configured SMTP server.
func (m *Mailer) send(to, subject, body string) error {
	auth := smtp.PlainAuth("", m.smtpUser, m.smtpPass, m.smtpHost)

	message := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		m.from, to, subject, body,
	))

	address := fmt.Sprintf("%s:%s", m.smtpHost, m.smtpPort)
	return smtp.SendMail(address, auth, m.from, []string{to}, message)
}

// renderTemplate executes an HTML template with the given link data.
func renderTemplate(source string, data map[string]string) (string, error) {
	parsed, err := template.New("email").Parse(source)
	if err != nil {
		return "", err
	}

	var buffer bytes.Buffer
	if err := parsed.Execute(&buffer, data); err != nil {
		return "", err
	}

	return buffer.String(), nil
}

const verificationTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333;">
    <h2>Verify your email address</h2>
    <p>Thanks for signing up for Study Partner! Click the button below to activate your account.</p>
    <a href="{{.Link}}" style="display: inline-block; background-color: #4F46E5; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; margin: 20px 0;">Verify Email Address</a>
    <p>Or copy and paste this link into your browser:</p>
    <p style="word-break: break-all; color: #4F46E5;">{{.Link}}</p>
    <p>If you didn't create an account, you can safely ignore this email.</p>
</body>
</html>
`

const passwordResetTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333;">
    <h2>Reset your password</h2>
    <p>You requested a password reset for your Study Partner account. Click the button below to choose a new password.</p>
    <a href="{{.Link}}" style="display: inline-block; background-color: #4F46E5; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; margin: 20px 0;">Reset Password</a>
    <p>Or copy and paste this link into your browser:</p>
    <p style="word-break: break-all; color: #4F46E5;">{{.Link}}</p>
    <p>This link expires in 1 hour. If you didn't request a reset, you can safely ignore this email.</p>
</body>
</html>
`
