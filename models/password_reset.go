// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"
)

type PasswordResetToken struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	User      *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Token     string `gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"not null"`
	Used      bool      `gorm:"not null;default:false"`
}

type PasswordResetTokenView struct {
	ID        uint   `json:"id"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	Used      bool   `json:"used"`
}

func (token PasswordResetToken) IsValid() bool {
	return token.IsValidAt(time.Now())
}

// IsValidAt reports whether the token is unused and now is strictly before its expiry.
func (token PasswordResetToken) IsValidAt(now time.Time) bool {
	return !token.Used && now.Before(token.ExpiresAt)
}

func (token PasswordResetToken) Serialize() PasswordResetTokenView {
	return PasswordResetTokenView{
		ID:        token.ID,
		Token:     token.Token,
		ExpiresAt: FormatTimestamp(token.ExpiresAt),
		Used:      token.Used,
	}
}

func init() {
	AllModels = append(AllModels, &PasswordResetToken{})
}
