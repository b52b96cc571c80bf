// SPDX-License-Identifier: GPL-3.0-only

package store

import (
	"context"
	"rentdesk-server/models"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return wrap(s.conn(ctx).Create(user).Error, "create user %s", user.Email)
}

func (s *Store) GetUser(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := s.conn(ctx).First(&user, id).Error
	return user, wrap(err, "get user %d", id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.conn(ctx).Where("email = ?", email).First(&user).Error
	return user, wrap(err, "get user by email")
}

func (s *Store) UpdateUserPassword(ctx context.Context, userID uint, hash string) error {
	result := s.conn(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password", hash)
	if result.Error != nil {
		return wrap(result.Error, "update password for user %d", userID)
	}
	if result.RowsAffected == 0 {
		return wrap(ErrNotFound, "update password for user %d", userID)
	}
	return nil
}

func (s *Store) CreatePasswordResetToken(ctx context.Context, token *models.PasswordResetToken) error {
	return wrap(s.conn(ctx).Create(token).Error, "create password reset token for user %d", token.UserID)
}

func (s *Store) GetPasswordResetToken(ctx context.Context, token string) (models.PasswordResetToken, error) {
	var record models.PasswordResetToken
	err := s.conn(ctx).Preload("User").Where("token = ?", token).First(&record).Error
	return record, wrap(err, "get password reset token")
}

func (s *Store) ListPasswordResetTokens(ctx context.Context, userID uint) ([]models.PasswordResetToken, error) {
	var tokens []models.PasswordResetToken
	err := s.conn(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&tokens).Error
	return tokens, wrap(err, "list password reset tokens for user %d", userID)
}

// ConsumeResetTokens marks every unused reset token of userID as used.
func (s *Store) ConsumeResetTokens(ctx context.Context, userID uint) error {
	err := s.conn(ctx).Model(&models.PasswordResetToken{}).
		Where("user_id = ? AND used = ?", userID, false).
		Update("used", true).Error
	return wrap(err, "consume reset tokens for user %d", userID)
}

func (s *Store) DeletePasswordResetToken(ctx context.Context, id uint) error {
	err := s.conn(ctx).Delete(&models.PasswordResetToken{}, id).Error
	return wrap(err, "delete password reset token %d", id)
}

func (s *Store) MarkResetTokenUsed(ctx context.Context, id uint) error {
	result := s.conn(ctx).Model(&models.PasswordResetToken{}).Where("id = ?", id).Update("used", true)
	if result.Error != nil {
		return wrap(result.Error, "mark reset token %d used", id)
	}
	if result.RowsAffected == 0 {
		return wrap(ErrNotFound, "mark reset token %d used", id)
	}
	return nil
}
