package gateway

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"
)

// SMTPConfig carries the SMTP server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Sender   string
}

// SMTPMailer sends transactional email over plain SMTP.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendPaymentNotification(_ context.Context, to string, shipmentID string, amount int64, paymentURL string, expiryDate time.Time) error {
	subject := fmt.Sprintf("Payment Notification for Shipment %s", shipmentID)
	body := fmt.Sprintf(
		"Your shipment %s is waiting for payment.\r\n\r\n"+
			"Amount: Rp. %d\r\n"+
			"Pay before: %s\r\n\r\n"+
			"Pay here: %s\r\n",
		shipmentID, amount, expiryDate.Format(time.RFC1123), paymentURL,
	)
	return m.send(to, subject, body)
}

func (m *SMTPMailer) SendPaymentSuccess(_ context.Context, to string, shipmentID string, amount int64, trackingNumber string) error {
	subject := fmt.Sprintf("Payment Successful - Shipment %s", shipmentID)
	var b strings.Builder
	fmt.Fprintf(&b, "We received your payment of Rp. %d for shipment %s.\r\n", amount, shipmentID)
	if trackingNumber != "" {
		fmt.Fprintf(&b, "\r\nYour tracking number is %s.\r\n", trackingNumber)
	}
	return m.send(to, subject, b.String())
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.cfg.Sender, to, subject, body,
	)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.Sender, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
