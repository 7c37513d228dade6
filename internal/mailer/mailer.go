package mailer

import (
	"log"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail over SMTP. When no SMTP host is
// configured it logs the message instead, so development environments
// work without a mail server.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func New(host string, port int, user, pass, from string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}
}

// Send delivers one HTML message. Callers treat mail as fire-and-forget
// and must not let a returned error fail their primary operation.
func (m *Mailer) Send(to, subject, html string) error {
	if m.host == "" {
		log.Printf("mail not configured; would send to=%s subject=%q", to, subject)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	return d.DialAndSend(msg)
}
