// SPDX-License-Identifier: GPL-3.0-only

package notifications

import "context"

type Provider string

const (
	SMTP Provider = "smtp"
	Mock Provider = "mock"
)

type Template string

const (
	PasswordResetTemplate Template = "password-reset"
	RentReminderTemplate  Template = "rent-reminder"
)

type Message struct {
	To        string         `json:"to"`
	ToName    *string        `json:"to_name,omitempty"`
	Subject   string         `json:"subject"`
	Template  Template       `json:"template"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Notifier delivers a rendered message to its recipient.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}
