// SPDX-License-Identifier: GPL-3.0-only

package services

import (
	"context"
	"fmt"
	"rentdesk-server/commons"
	"rentdesk-server/events"
	"rentdesk-server/models"
	"rentdesk-server/mpesa"
	"time"

	"github.com/shopspring/decimal"
)

type RecordPaymentInput struct {
	TenantID uint
	// RoomID defaults to the room the tenant currently holds.
	RoomID          *uint
	Amount          float64
	Date            time.Time
	Method          models.PaymentMethod
	ReferenceNumber *string
	Notes           *string
}

type STKPushEvent struct {
	TenantID          uint    `json:"tenant_id"`
	RoomNumber        string  `json:"room_number"`
	Phone             string  `json:"phone"`
	Amount            float64 `json:"amount"`
	CheckoutRequestID string  `json:"checkout_request_id,omitempty"`
	Message           string  `json:"message,omitempty"`
}

func (s *Service) RecordPayment(ctx context.Context, in RecordPaymentInput) (models.PaymentView, error) {
	if !finite(in.Amount) || !decimal.NewFromFloat(in.Amount).IsPositive() {
		return models.PaymentView{}, invalid("amount must be greater than zero")
	}
	method := in.Method
	if method == "" {
		method = models.CashPayment
	}
	if !method.Valid() {
		return models.PaymentView{}, invalid("payment_method must be %q or %q", models.CashPayment, models.BankPayment)
	}

	if _, err := s.store.GetTenant(ctx, in.TenantID); err != nil {
		return models.PaymentView{}, err
	}

	roomID := in.RoomID
	if roomID == nil {
		room, err := s.store.RoomForTenant(ctx, in.TenantID)
		if err != nil {
			return models.PaymentView{}, err
		}
		if room != nil {
			roomID = &room.ID
		}
	} else if _, err := s.store.GetRoom(ctx, *roomID); err != nil {
		return models.PaymentView{}, err
	}

	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	payment := models.Payment{
		Amount:          in.Amount,
		Date:            models.DateOf(date),
		TenantID:        in.TenantID,
		RoomID:          roomID,
		PaymentMethod:   method,
		ReferenceNumber: trimmed(in.ReferenceNumber),
		Notes:           in.Notes,
	}
	if err := s.store.CreatePayment(ctx, &payment); err != nil {
		commons.Logger.Errorf("Failed to record payment: %v", err)
		return models.PaymentView{}, err
	}

	view := payment.Serialize()
	commons.Logger.Infof("Payment %d recorded for tenant %d", payment.ID, payment.TenantID)
	s.publish(ctx, events.PaymentRecorded, view)
	return view, nil
}

// ListTenantPayments returns the tenant's payments, newest first.
func (s *Service) ListTenantPayments(ctx context.Context, tenantID uint) ([]models.PaymentView, error) {
	if _, err := s.store.GetTenant(ctx, tenantID); err != nil {
		return nil, err
	}
	payments, err := s.store.ListPaymentsByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	views := make([]models.PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, p.Serialize())
	}
	return views, nil
}

// RequestRentPayment sends an STK push for the rent of the tenant's room,
// using the room number as the account reference. Gateway failures are
// reported in the Result, not as an error.
func (s *Service) RequestRentPayment(ctx context.Context, tenantID uint) (mpesa.Result, error) {
	tenant, err := s.store.GetTenant(ctx, tenantID)
	if err != nil {
		return mpesa.Result{}, err
	}
	if tenant.Phone == nil || *tenant.Phone == "" {
		return mpesa.Result{}, invalid("tenant %d has no phone number", tenantID)
	}
	room, err := s.store.RoomForTenant(ctx, tenantID)
	if err != nil {
		return mpesa.Result{}, err
	}
	if room == nil {
		return mpesa.Result{}, invalid("tenant %d has no room", tenantID)
	}
	if !finite(room.RentAmount) || room.RentAmount <= 0 {
		return mpesa.Result{}, invalid("room %s has no rent amount", room.RoomNumber)
	}

	phone, err := mpesa.NormalizePhoneNumber(*tenant.Phone, s.region)
	if err != nil {
		return mpesa.Result{}, invalid("%v", err)
	}

	result := s.gateway.STKPush(ctx, phone, room.RentAmount, room.RoomNumber, fmt.Sprintf("Rent for room %s", room.RoomNumber))

	payload := STKPushEvent{
		TenantID:   tenantID,
		RoomNumber: room.RoomNumber,
		Phone:      phone,
		Amount:     room.RentAmount,
	}
	if result.Success {
		payload.CheckoutRequestID = result.CheckoutRequestID()
		s.publish(ctx, events.STKPushRequested, payload)
	} else {
		payload.Message = result.Message
		s.publish(ctx, events.STKPushFailed, payload)
	}
	return result, nil
}
