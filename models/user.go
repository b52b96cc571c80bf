// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

var AllModels []any

type Role string

const (
	RoleManager  Role = "manager"
	RoleLandlord Role = "landlord"
)

func (r Role) Valid() bool {
	return r == RoleManager || r == RoleLandlord
}

type User struct {
	ID       uint   `gorm:"primaryKey"`
	Email    string `gorm:"size:255;not null;uniqueIndex"`
	Username string `gorm:"size:255;not null"`
	Password string `gorm:"size:255;not null"`
	Role     Role   `gorm:"size:50;not null"`
	// Legacy single-token reset columns; superseded by PasswordResetToken.
	ResetToken       *string `gorm:"size:255;default:null"`
	ResetTokenExpiry *time.Time
}

type UserView struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (user *User) BeforeCreate(tx *gorm.DB) error {
	if !user.Role.Valid() {
		return fmt.Errorf("invalid role %q", user.Role)
	}
	return nil
}

// BeforeUpdate only checks the role when the update carries one.
func (user *User) BeforeUpdate(tx *gorm.DB) error {
	if user.Role != "" && !user.Role.Valid() {
		return fmt.Errorf("invalid role %q", user.Role)
	}
	return nil
}

// Serialize never exposes the password hash or reset columns.
func (user User) Serialize() UserView {
	return UserView{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	}
}

func init() {
	AllModels = append(AllModels, &User{})
}
