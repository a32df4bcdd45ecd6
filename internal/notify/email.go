package notify

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"

	"gnc-attendance/internal/attendance"
	"gnc-attendance/internal/report"

	"github.com/jordan-wright/email"
)

type SmtpConfig struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	To           []string `json:"to"`
}

// Enabled reports whether enough is configured to send mail.
func (c SmtpConfig) Enabled() bool {
	return c.Server != "" && c.EmailAddress != "" && len(c.To) > 0
}

// Emailer mails the run's summary.
type Emailer struct {
	config SmtpConfig
}

func NewEmailer(config SmtpConfig) Emailer {
	return Emailer{config: config}
}

func subject(r attendance.Report) string {
	today := "today not found"
	if r.Today.Found {
		today = fmt.Sprintf("today %d hours", r.Today.Hours)
		if r.Today.Posted {
			today += " (posted)"
		}
	}
	return fmt.Sprintf("Attendance %s, %s", r.Overall, today)
}

// Message builds the mail without sending it.
func (e Emailer) Message(r attendance.Report, today string) *email.Email {
	var body bytes.Buffer
	report.NewConsole(&body).Summary(r, today)

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Attendance <%s>", e.config.EmailAddress)
	mail.To = e.config.To
	mail.Subject = subject(r)
	mail.Text = body.Bytes()
	return mail
}

func (e Emailer) Send(r attendance.Report, today string) error {
	mail := e.Message(r, today)
	addr := fmt.Sprintf("%s:%d", e.config.Server, e.config.Port)

	err := mail.Send(addr, smtp.PlainAuth("", e.config.EmailAddress, e.config.Password, e.config.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		return fmt.Errorf("send summary email: %w", err)
	}
	return nil
}
