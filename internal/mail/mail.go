// Package mail delivers password reset links over SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"

	gomail "github.com/wneessen/go-mail"
)

const resetSubject = "EmoTune - Password Reset Request"

var resetTemplate = template.Must(template.New("reset").Parse(`<html>
  <body style="font-family: Arial; color: #333;">
    <h2>EmoTune Password Reset</h2>
    <p>Hi {{.FirstName}},</p>
    <p>Click the link below to reset your password:</p>
    <p><a href="{{.Link}}" style="background: #4A00E0; color: white; padding: 10px 15px; border-radius: 5px; text-decoration: none;">Reset Password</a></p>
    <br>
    <p>If you didn't request this, please ignore this email.</p>
    <p>EmoTune Support Team</p>
  </body>
</html>`))

// Config holds SMTP settings
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Sender delivers composed messages (implemented by *gomail.Client)
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// Mailer sends reset-link emails from the configured account
type Mailer struct {
	sender      Sender
	from        string
	frontendURL string
}

// NewMailer creates an SMTP mailer. Port 465 uses implicit TLS, any other
// port requires STARTTLS.
func NewMailer(cfg Config, frontendURL string) (*Mailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
	}
	if cfg.Port == 465 {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return NewMailerWithSender(client, cfg.Username, frontendURL), nil
}

// NewMailerWithSender wraps an existing sender
func NewMailerWithSender(sender Sender, from, frontendURL string) *Mailer {
	return &Mailer{sender: sender, from: from, frontendURL: frontendURL}
}

// ResetLink builds the frontend URL a user follows to reset a password
func (m *Mailer) ResetLink(email string) string {
	return m.frontendURL + "/reset-password?email=" + url.QueryEscape(email)
}

// SendResetLink emails the reset link to an account
func (m *Mailer) SendResetLink(ctx context.Context, to, firstName string) error {
	msg, err := m.composeReset(to, firstName)
	if err != nil {
		return err
	}

	if err := m.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send reset link: %w", err)
	}
	return nil
}

func (m *Mailer) composeReset(to, firstName string) (*gomail.Msg, error) {
	var body bytes.Buffer
	err := resetTemplate.Execute(&body, struct {
		FirstName string
		Link      string
	}{firstName, m.ResetLink(to)})
	if err != nil {
		return nil, fmt.Errorf("render reset email: %w", err)
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("recipient address: %w", err)
	}
	msg.Subject(resetSubject)
	msg.SetBodyString(gomail.TypeTextHTML, body.String())

	return msg, nil
}
