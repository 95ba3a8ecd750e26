package mailing

import (
	"strconv"

	"foodgram-backend/internal/utils"

	"gopkg.in/gomail.v2"
)

// Mailer is what services depend on; tests inject a no-op.
type Mailer interface {
	Send(toEmail, subject, body string) error
}

type smtpMailer struct{}

func NewSMTPMailer() Mailer {
	return &smtpMailer{}
}

func (m *smtpMailer) Send(toEmail, subject, body string) error {
	host := utils.GetConfig("SMTP_HOST")
	sender := utils.GetConfig("SMTP_AUTH_EMAIL")
	password := utils.GetConfig("SMTP_AUTH_PASSWORD")

	port, err := strconv.Atoi(utils.GetConfig("SMTP_PORT"))
	if err != nil {
		return err
	}

	message := gomail.NewMessage()
	message.SetHeader("From", sender)
	message.SetHeader("To", toEmail)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", body)

	dialer := gomail.NewDialer(host, port, sender, password)
	return dialer.DialAndSend(message)
}
