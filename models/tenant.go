// SPDX-License-Identifier: GPL-3.0-only

package models

import "time"

type Tenant struct {
	ID                 uint       `gorm:"primaryKey"`
	Name               string     `gorm:"size:255;not null"`
	Email              string     `gorm:"size:255;not null"`
	Phone              *string    `gorm:"size:50;default:null"`
	NationalID         *string    `gorm:"size:100;default:null"`
	MovingInDate       time.Time  `gorm:"type:date;not null"`
	MovingOutDate      *time.Time `gorm:"type:date"`
	EmailNotifications bool       `gorm:"not null"`
	LastReminderSent   *time.Time `gorm:"type:date"`
}

type TenantView struct {
	ID                 uint    `json:"id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Phone              *string `json:"phone"`
	NationalID         *string `json:"national_id"`
	MovingInDate       string  `json:"moving_in_date"`
	MovingOutDate      *string `json:"moving_out_date"`
	RoomNumber         *string `json:"room_number"`
	EmailNotifications bool    `json:"email_notifications"`
}

// Serialize renders the tenant together with the room it currently holds.
// room is resolved by the caller; nil means the tenant has no room.
func (tenant Tenant) Serialize(room *Room) TenantView {
	view := TenantView{
		ID:                 tenant.ID,
		Name:               tenant.Name,
		Email:              tenant.Email,
		Phone:              tenant.Phone,
		NationalID:         tenant.NationalID,
		MovingInDate:       FormatDate(tenant.MovingInDate),
		MovingOutDate:      formatOptionalDate(tenant.MovingOutDate),
		EmailNotifications: tenant.EmailNotifications,
	}
	if room != nil {
		roomNumber := room.RoomNumber
		view.RoomNumber = &roomNumber
	}
	return view
}

// HasMovedOut reports whether the tenant's moving-out date is on or before day.
func (tenant Tenant) HasMovedOut(day time.Time) bool {
	return tenant.MovingOutDate != nil && !tenant.MovingOutDate.After(day)
}

func init() {
	AllModels = append(AllModels, &Tenant{})
}
