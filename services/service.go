// SPDX-License-Identifier: GPL-3.0-only

// Package services implements the rentdesk business operations on top of the
// store, the M-Pesa gateway, email notifications and the event publisher.
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"rentdesk-server/commons"
	"rentdesk-server/crypto"
	"rentdesk-server/events"
	"rentdesk-server/mpesa"
	"rentdesk-server/notifications"
	"rentdesk-server/passwordcheck"
	"rentdesk-server/store"
	"time"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyRequests    = errors.New("too many requests")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Gateway requests payments from a customer's phone.
type Gateway interface {
	STKPush(ctx context.Context, phone string, amount float64, accountRef, desc string) mpesa.Result
}

type Hasher interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, encodedHash string) error
}

type PasswordValidator interface {
	Validate(ctx context.Context, password string) error
}

type Service struct {
	store     *store.Store
	gateway   Gateway
	notifier  notifications.Notifier
	publisher events.Publisher
	hasher    Hasher
	passwords PasswordValidator
	now       func() time.Time
	resetURL  string
	region    string
}

type Option func(*Service)

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithHasher(h Hasher) Option {
	return func(s *Service) { s.hasher = h }
}

func WithPasswordValidator(v PasswordValidator) Option {
	return func(s *Service) { s.passwords = v }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithResetURL(url string) Option {
	return func(s *Service) { s.resetURL = url }
}

// WithPhoneRegion sets the region used to interpret tenant phone numbers
// written without a country code.
func WithPhoneRegion(region string) Option {
	return func(s *Service) { s.region = region }
}

func New(st *store.Store, gateway Gateway, notifier notifications.Notifier, opts ...Option) *Service {
	s := &Service{
		store:     st,
		gateway:   gateway,
		notifier:  notifier,
		publisher: events.NopPublisher{},
		hasher:    crypto.NewPasswordHasher(),
		passwords: passwordcheck.NewChecker(),
		now:       time.Now,
		resetURL:  commons.GetEnv("PASSWORD_RESET_URL", "http://localhost:3000/reset-password"),
		region:    commons.GetEnv("PHONE_REGION", mpesa.DefaultRegion),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// publish never fails the calling operation; the state change it reports
// has already been committed.
func (s *Service) publish(ctx context.Context, t events.Type, payload any) {
	event, err := events.NewEvent(t, s.now(), payload)
	if err != nil {
		commons.Logger.Errorf("Failed to build %s event: %v", t, err)
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		commons.Logger.Errorf("Failed to publish %s event: %v", t, err)
	}
}
