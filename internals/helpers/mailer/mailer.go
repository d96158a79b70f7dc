package mailer

import (
	"fmt"
	"log"
	"strconv"

	gomail "gopkg.in/gomail.v2"

	"umuganda_backend/internals/configs"
)

type Mailer interface {
	Enabled() bool
	Send(to, subject, text, html string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailerFromEnv() Mailer {
	if configs.SMTPUser == "" || configs.SMTPPassword == "" {
		return &LogMailer{}
	}
	port, err := strconv.Atoi(configs.SMTPPort)
	if err != nil {
		port = 587
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(configs.SMTPHost, port, configs.SMTPUser, configs.SMTPPassword),
		from:   configs.SMTPUser,
	}
}

func (m *SMTPMailer) Enabled() bool { return true }

func (m *SMTPMailer) Send(to, subject, text, html string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)
	if html != "" {
		msg.AddAlternative("text/html", html)
	}
	return m.dialer.DialAndSend(msg)
}

// LogMailer is the unconfigured fallback for local dev.
type LogMailer struct{}

func (m *LogMailer) Enabled() bool { return false }

func (m *LogMailer) Send(to, subject, text, html string) error {
	log.Printf("[WARN] SMTP not configured; email preview -> %s | %s | %s", to, subject, text)
	return nil
}

// PasswordResetBody builds the reset email for admin accounts.
func PasswordResetBody(link string, expiresInMinutes int) (subject, text, html string) {
	subject = "Umuganda SDA password reset"
	text = fmt.Sprintf("A password reset was requested for your account. Follow this link within %d minutes: %s", expiresInMinutes, link)
	html = fmt.Sprintf(`<p>A password reset was requested for your account.</p><p><a href=%q>Reset your password</a> (valid for %d minutes).</p>`, link, expiresInMinutes)
	return subject, text, html
}
