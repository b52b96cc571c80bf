// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type PaymentMethod string

const (
	CashPayment PaymentMethod = "cash"
	BankPayment PaymentMethod = "bank"
)

func (m PaymentMethod) Valid() bool {
	return m == CashPayment || m == BankPayment
}

type Payment struct {
	ID              uint          `gorm:"primaryKey"`
	Amount          float64       `gorm:"not null"`
	Date            time.Time     `gorm:"type:date;not null"`
	TenantID        uint          `gorm:"not null;index"`
	Tenant          *Tenant       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	RoomID          *uint         `gorm:"index"`
	Room            *Room         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	PaymentMethod   PaymentMethod `gorm:"size:20;default:'cash'"`
	ReferenceNumber *string       `gorm:"size:100;default:null"`
	Notes           *string       `gorm:"type:text;default:null"`
}

type PaymentView struct {
	ID              uint          `json:"id"`
	Amount          float64       `json:"amount"`
	Date            string        `json:"date"`
	TenantID        uint          `json:"tenant_id"`
	RoomID          *uint         `json:"room_id"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	ReferenceNumber *string       `json:"reference_number"`
	Notes           *string       `json:"notes"`
}

func (payment *Payment) BeforeCreate(tx *gorm.DB) error {
	if payment.Date.IsZero() {
		payment.Date = Today()
	}
	if payment.PaymentMethod == "" {
		payment.PaymentMethod = CashPayment
	}
	return nil
}

func (payment *Payment) BeforeSave(tx *gorm.DB) error {
	if payment.PaymentMethod != "" && !payment.PaymentMethod.Valid() {
		return fmt.Errorf("invalid payment method %q", payment.PaymentMethod)
	}
	return nil
}

func (payment Payment) Serialize() PaymentView {
	return PaymentView{
		ID:              payment.ID,
		Amount:          payment.Amount,
		Date:            FormatDate(payment.Date),
		TenantID:        payment.TenantID,
		RoomID:          payment.RoomID,
		PaymentMethod:   payment.PaymentMethod,
		ReferenceNumber: payment.ReferenceNumber,
		Notes:           payment.Notes,
	}
}

func init() {
	AllModels = append(AllModels, &Payment{})
}
