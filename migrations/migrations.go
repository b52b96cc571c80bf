// SPDX-License-Identifier: GPL-3.0-only

package migrations

import (
	"fmt"
	"rentdesk-server/models"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func List() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "001_initial_schema",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(models.AllModels...); err != nil {
					return fmt.Errorf("failed to create tables: %w", err)
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				for i := len(models.AllModels) - 1; i >= 0; i-- {
					if err := tx.Migrator().DropTable(models.AllModels[i]); err != nil {
						return fmt.Errorf("failed to drop table: %w", err)
					}
				}
				return nil
			},
		},
		{
			ID: "002_move_legacy_reset_tokens",
			Migrate: func(tx *gorm.DB) error {
				var users []models.User
				if err := tx.Where("reset_token IS NOT NULL AND reset_token_expiry IS NOT NULL").
					Find(&users).Error; err != nil {
					return fmt.Errorf("failed to fetch users with legacy reset tokens: %w", err)
				}

				for _, user := range users {
					token := models.PasswordResetToken{
						UserID:    user.ID,
						Token:     *user.ResetToken,
						ExpiresAt: *user.ResetTokenExpiry,
					}
					if err := tx.Where("token = ?", token.Token).FirstOrCreate(&token).Error; err != nil {
						return fmt.Errorf("failed to move reset token for user %d: %w", user.ID, err)
					}
					if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
						Updates(map[string]any{"reset_token": nil, "reset_token_expiry": nil}).Error; err != nil {
						return fmt.Errorf("failed to clear legacy reset token for user %d: %w", user.ID, err)
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error { return nil },
		},
	}
}
