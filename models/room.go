// SPDX-License-Identifier: GPL-3.0-only

package models

type RoomStatus string

const (
	RoomVacant   RoomStatus = "vacant"
	RoomOccupied RoomStatus = "occupied"
)

type Room struct {
	ID         uint       `gorm:"primaryKey"`
	RoomNumber string     `gorm:"size:100;not null;uniqueIndex"`
	Status     RoomStatus `gorm:"size:50;not null;default:'vacant'"`
	RoomType   string     `gorm:"size:50;not null;default:'single'"`
	RentAmount float64    `gorm:"not null"`
	TenantID   *uint      `gorm:"index"`
	Tenant     *Tenant    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

type RoomView struct {
	ID         uint       `json:"id"`
	RoomNumber string     `json:"room_number"`
	Status     RoomStatus `json:"status"`
	RoomType   string     `json:"room_type"`
	RentAmount float64    `json:"rent_amount"`
	TenantID   *uint      `json:"tenant_id"`
}

func (room Room) Serialize() RoomView {
	return RoomView{
		ID:         room.ID,
		RoomNumber: room.RoomNumber,
		Status:     room.Status,
		RoomType:   room.RoomType,
		RentAmount: room.RentAmount,
		TenantID:   room.TenantID,
	}
}

func init() {
	AllModels = append(AllModels, &Room{})
}
