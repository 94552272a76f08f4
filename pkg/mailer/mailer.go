package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/ikkim/authgate-backend/config"
	"github.com/ikkim/authgate-backend/pkg/logger"
)

// Mailer delivers account notifications out-of-band. Callers treat
// delivery as fire-and-forget; errors are logged, never surfaced to users.
type Mailer interface {
	SendWelcomeEmail(toEmail string) error
	SendPasswordResetEmail(toEmail, resetToken string) error
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

func New(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

// SendWelcomeEmail sends a greeting to a freshly registered account
func (m *smtpMailer) SendWelcomeEmail(toEmail string) error {
	subject := "[AuthGate] Welcome"
	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px;">
	<h1 style="color: #333;">Welcome!</h1>
	<p style="color: #666; line-height: 1.6;">
		Your account %s has been created successfully.<br>
		You can now sign in with your email and password.
	</p>
	<p style="color: #999; font-size: 14px;">
		* If you did not create this account, please contact support.
	</p>
</body>
</html>
`, toEmail)

	return m.send(toEmail, subject, body)
}

// SendPasswordResetEmail sends a password reset link
func (m *smtpMailer) SendPasswordResetEmail(toEmail, resetToken string) error {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", m.cfg.FrontendURL, resetToken)

	subject := "[AuthGate] Password reset"
	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px;">
	<h1 style="color: #333;">Password reset</h1>
	<p style="color: #666; line-height: 1.6;">
		A password reset was requested for your account.<br>
		Click the link below to choose a new password.
	</p>
	<p style="margin: 30px 0;">
		<a href="%s" style="display: inline-block; background-color: #4A90D9; color: white; padding: 12px 32px; text-decoration: none; border-radius: 6px; font-weight: bold;">
			Reset password
		</a>
	</p>
	<p style="color: #999; font-size: 14px;">
		* This link is valid for 6 hours and can be used once.
	</p>
	<p style="color: #999; font-size: 14px;">
		* If you did not request this, you can ignore this email.
	</p>
	<p style="color: #666; font-size: 12px; word-break: break-all;">%s</p>
</body>
</html>
`, resetLink, resetLink)

	return m.send(toEmail, subject, body)
}

func (m *smtpMailer) send(toEmail, subject, body string) error {
	// Dev mode: without SMTP credentials, log instead of sending
	if m.cfg.Email == "" || m.cfg.Password == "" {
		logger.Info("[DEV MODE] Email not sent", map[string]interface{}{
			"to":      toEmail,
			"subject": subject,
		})
		return nil
	}

	message := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		m.cfg.Email, toEmail, subject, body,
	))

	auth := smtp.PlainAuth("", m.cfg.Email, m.cfg.Password, m.cfg.Host)

	err := smtp.SendMail(
		m.cfg.Host+":"+m.cfg.Port,
		auth,
		m.cfg.Email,
		[]string{toEmail},
		message,
	)
	if err != nil {
		logger.Error("Failed to send email", err, map[string]interface{}{
			"to":      toEmail,
			"subject": subject,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Info("Email sent", map[string]interface{}{
		"to":      toEmail,
		"subject": subject,
	})
	return nil
}
