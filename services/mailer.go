package services

import (
	"fmt"
	"log"
	"time"

	"github.com/Danidiaz0799/fungicloud/config"

	"gopkg.in/gomail.v2"
)

// Notifier delivers offline alerts. The monitor treats any failure as
// non-fatal and only logs it.
type Notifier interface {
	SendOfflineAlert(toEmail, serverName string, lastSeen time.Time) error
}

// SMTPMailer sends alert emails through a plain SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

func NewSMTPMailer(settings config.Settings) *SMTPMailer {
	return &SMTPMailer{
		host:     settings.SMTPHost,
		port:     settings.SMTPPort,
		user:     settings.SMTPUser,
		password: settings.SMTPPassword,
		from:     settings.AlertEmailFrom,
	}
}

func (m *SMTPMailer) SendOfflineAlert(toEmail, serverName string, lastSeen time.Time) error {
	if m.user == "" || m.password == "" {
		log.Printf("SMTP not configured, skipping alert email to %s", toEmail)
		return nil
	}

	body := fmt.Sprintf(`<html><body>
<h2>Server Offline Alert</h2>
<p>Your server <strong>%s</strong> has not reported in over 15 minutes.</p>
<p><strong>Last seen:</strong> %s</p>
<p>Please check:</p>
<ul>
<li>Internet connectivity of the server</li>
<li>Status of the local server service</li>
<li>System logs</li>
</ul>
<p>If the problem persists, contact support.</p>
</body></html>`, serverName, lastSeen.Format("2006-01-02 15:04:05"))

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", fmt.Sprintf("Server Offline: %s", serverName))
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.password)
	return dialer.DialAndSend(msg)
}
