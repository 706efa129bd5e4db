// Package mail sends transactional mail over SMTP.
package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/kopihub/kopihub/config"
)

type Sender struct {
	cfg config.MailConfig
}

func NewSender(cfg config.MailConfig) *Sender {
	return &Sender{cfg: cfg}
}

func (s *Sender) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.SmtpHost, s.cfg.SmtpPort, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// SendWelcome sends the registration greeting.
func (s *Sender) SendWelcome(to string) error {
	body := "<h2>Welcome to KopiHub!</h2>" +
		"<p>Your account is ready. Grab your first cup and enjoy.</p>"
	return s.send(to, "Welcome to KopiHub", body)
}
