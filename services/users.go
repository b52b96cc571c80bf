// SPDX-License-Identifier: GPL-3.0-only

package services

import (
	"context"
	"errors"
	"fmt"
	"rentdesk-server/commons"
	"rentdesk-server/crypto"
	"rentdesk-server/models"
	"rentdesk-server/notifications"
	"rentdesk-server/store"
	"strings"
	"time"
)

const (
	ResetTokenTTL      = time.Hour
	resetRequestWindow = 5 * time.Minute
)

type RegisterUserInput struct {
	Email    string
	Username string
	Password string
	Role     models.Role
}

func (s *Service) RegisterUser(ctx context.Context, in RegisterUserInput) (models.User, error) {
	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)

	switch {
	case email == "":
		return models.User{}, invalid("email field is required")
	case username == "":
		return models.User{}, invalid("username field is required")
	case in.Password == "":
		return models.User{}, invalid("password field is required")
	case !in.Role.Valid():
		return models.User{}, invalid("role must be %q or %q", models.RoleManager, models.RoleLandlord)
	}

	if err := s.passwords.Validate(ctx, in.Password); err != nil {
		commons.Logger.Error("Password validation failed: ", err)
		return models.User{}, invalid("invalid password: %v", err)
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		commons.Logger.Errorf("This email is already registered.")
		return models.User{}, conflict("email %s is already registered", email)
	} else if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, err
	}

	hash, err := s.hasher.HashPassword(in.Password)
	if err != nil {
		commons.Logger.Errorf("Failed to hash password: %v", err)
		return models.User{}, err
	}

	user := models.User{Email: email, Username: username, Password: hash, Role: in.Role}
	if err := s.store.CreateUser(ctx, &user); err != nil {
		commons.Logger.Errorf("Failed to create user: %v", err)
		return models.User{}, err
	}
	commons.Logger.Infof("User registered: %d", user.ID)
	return user, nil
}

// VerifyCredentials returns ErrInvalidCredentials for an unknown email and a
// wrong password alike.
func (s *Service) VerifyCredentials(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if err := s.hasher.VerifyPassword(password, user.Password); err != nil {
		commons.Logger.Debugf("Password verification failed for user %d: %v", user.ID, err)
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// RequestPasswordReset issues a one-hour reset token and emails it. An
// unknown email is not reported to the caller.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalid("email field is required")
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		commons.Logger.Error("User not found for password reset.")
		return nil
	}
	if err != nil {
		return err
	}

	now := s.now()
	recent, err := s.store.ListPasswordResetTokens(ctx, user.ID)
	if err != nil {
		return err
	}
	for _, t := range recent {
		if !t.Used && t.CreatedAt.After(now.Add(-resetRequestWindow)) {
			commons.Logger.Info("Recent password reset email already sent")
			return fmt.Errorf("%w: wait %s before requesting another password reset email", ErrTooManyRequests, resetRequestWindow)
		}
	}

	token, err := crypto.GenerateRandomString("prt_", 32, "hex")
	if err != nil {
		commons.Logger.Errorf("Failed to generate password reset token: %v", err)
		return err
	}

	record := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(ResetTokenTTL),
	}
	if err := s.store.CreatePasswordResetToken(ctx, &record); err != nil {
		commons.Logger.Errorf("Failed to store password reset token: %v", err)
		return err
	}

	err = s.notifier.Send(ctx, notifications.Message{
		To:       user.Email,
		ToName:   &user.Username,
		Subject:  "Reset your RentDesk password",
		Template: notifications.PasswordResetTemplate,
		Variables: map[string]any{
			"Username":  user.Username,
			"ResetURL":  s.resetURL + "?token=" + token,
			"ExpiresAt": models.FormatTimestamp(record.ExpiresAt),
		},
	})
	if err != nil {
		// An undelivered token must not count against the request throttle.
		if delErr := s.store.DeletePasswordResetToken(ctx, record.ID); delErr != nil {
			commons.Logger.Errorf("Failed to delete undelivered reset token: %v", delErr)
		}
		return fmt.Errorf("send password reset email: %w", err)
	}

	commons.Logger.Infof("Password reset email sent for user %d", user.ID)
	return nil
}

// ResetPassword sets a new password using an unused, unexpired token. The
// password update and consuming the token commit together.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidToken
	}
	if newPassword == "" {
		return invalid("new_password field is required")
	}

	record, err := s.store.GetPasswordResetToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		commons.Logger.Error("Invalid or already used password reset token")
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}
	if !record.IsValidAt(s.now()) || record.User == nil {
		commons.Logger.Error("Password reset token is used or expired")
		return ErrInvalidToken
	}

	if err := s.passwords.Validate(ctx, newPassword); err != nil {
		commons.Logger.Error("New password validation failed: ", err)
		return invalid("invalid new password: %v", err)
	}
	if err := s.hasher.VerifyPassword(newPassword, record.User.Password); err == nil {
		commons.Logger.Error("New password is the same as current password.")
		return invalid("new password must be different from the current password")
	}

	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		commons.Logger.Errorf("Failed to hash new password: %v", err)
		return err
	}

	err = s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.UpdateUserPassword(ctx, record.UserID, hash); err != nil {
			return err
		}
		if err := tx.MarkResetTokenUsed(ctx, record.ID); err != nil {
			return err
		}
		return tx.ConsumeResetTokens(ctx, record.UserID)
	})
	if err != nil {
		commons.Logger.Errorf("Password reset transaction failed: %v", err)
		return err
	}

	commons.Logger.Infof("Password reset successful for user ID: %d", record.UserID)
	return nil
}
