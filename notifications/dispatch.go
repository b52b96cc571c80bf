// SPDX-License-Identifier: GPL-3.0-only

package notifications

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"rentdesk-server/commons"
	"strconv"
	"sync"

	"gopkg.in/gomail.v2"
)

// Dispatcher sends email through the configured provider.
type Dispatcher struct {
	provider Provider
	smtp     SMTPConfig
	send     func(*gomail.Message) error

	mu   sync.Mutex
	sent []Message
}

// LoadSMTPConfig reads SMTP_* variables; a non-numeric port yields 0.
func LoadSMTPConfig() SMTPConfig {
	port, _ := strconv.Atoi(commons.GetEnv("SMTP_PORT"))
	return SMTPConfig{
		Host:      commons.GetEnv("SMTP_HOST"),
		Port:      port,
		Username:  commons.GetEnv("SMTP_USERNAME"),
		Password:  commons.GetEnv("SMTP_PASSWORD"),
		FromEmail: commons.GetEnv("SMTP_FROM_EMAIL"),
		FromName:  commons.GetEnv("SMTP_FROM_NAME", "RentDesk"),
	}
}

// NewDispatcher picks the mock provider when MOCK_EMAIL_NOTIFICATIONS is true.
func NewDispatcher() (*Dispatcher, error) {
	if commons.GetEnvBool("MOCK_EMAIL_NOTIFICATIONS", false) {
		commons.Logger.Debug("Mock email notifications enabled, using mock provider")
		return NewMockDispatcher(), nil
	}
	return NewSMTPDispatcher(LoadSMTPConfig())
}

func NewMockDispatcher() *Dispatcher {
	return &Dispatcher{provider: Mock}
}

func NewSMTPDispatcher(cfg SMTPConfig) (*Dispatcher, error) {
	switch {
	case cfg.Host == "":
		return nil, errors.New("SMTP_HOST environment variable is not set")
	case cfg.Port == 0:
		return nil, errors.New("SMTP_PORT environment variable is not set or invalid")
	case cfg.FromEmail == "":
		return nil, errors.New("SMTP_FROM_EMAIL environment variable is not set")
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return &Dispatcher{
		provider: SMTP,
		smtp:     cfg,
		send:     func(m *gomail.Message) error { return dialer.DialAndSend(m) },
	}, nil
}

func (d *Dispatcher) Provider() Provider { return d.provider }

func (d *Dispatcher) Send(ctx context.Context, msg Message) error {
	commons.Logger.Debugf("Dispatching email:\n- template=%s\n- provider=%s", msg.Template, d.provider)

	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return errors.New("'to' field is required")
	}
	if msg.Subject == "" {
		return errors.New("'subject' field is required")
	}

	body, err := Render(msg.Template, msg.Variables)
	if err != nil {
		commons.Logger.Errorf("Failed to render template: %v", err)
		return err
	}

	switch d.provider {
	case Mock:
		d.mock(msg, body)
	case SMTP:
		if err := d.sendSMTP(msg, body); err != nil {
			commons.Logger.Error("Failed to send email via SMTP:", err)
			return fmt.Errorf("failed to send email via SMTP: %w", err)
		}
	default:
		return fmt.Errorf("unsupported email provider: %s", d.provider)
	}

	commons.Logger.Infof("Email dispatched:\n- template=%s\n- provider=%s", msg.Template, d.provider)
	return nil
}

func (d *Dispatcher) sendSMTP(msg Message, body string) error {
	toName := ""
	if msg.ToName != nil {
		toName = *msg.ToName
	}
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(d.smtp.FromEmail, d.smtp.FromName))
	m.SetHeader("To", m.FormatAddress(msg.To, toName))
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", body)
	return d.send(m)
}

func (d *Dispatcher) mock(msg Message, body string) {
	commons.Logger.Info("=== MOCK EMAIL NOTIFICATION ===")
	commons.Logger.Infof("To: %s", msg.To)
	commons.Logger.Infof("Subject: %s", msg.Subject)
	commons.Logger.Debugf("Body:\n%s", body)

	d.mu.Lock()
	d.sent = append(d.sent, msg)
	d.mu.Unlock()
}

// Sent returns the messages accepted by the mock provider.
func (d *Dispatcher) Sent() []Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Message(nil), d.sent...)
}
