// SPDX-License-Identifier: GPL-3.0-only

package store

import (
	"context"
	"rentdesk-server/models"
)

func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return wrap(s.conn(ctx).Create(payment).Error, "create payment for tenant %d", payment.TenantID)
}

func (s *Store) GetPayment(ctx context.Context, id uint) (models.Payment, error) {
	var payment models.Payment
	err := s.conn(ctx).First(&payment, id).Error
	return payment, wrap(err, "get payment %d", id)
}

func (s *Store) ListPaymentsByTenant(ctx context.Context, tenantID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.conn(ctx).Where("tenant_id = ?", tenantID).Order("date DESC, id DESC").Find(&payments).Error
	return payments, wrap(err, "list payments for tenant %d", tenantID)
}

func (s *Store) ListPaymentsByRoom(ctx context.Context, roomID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.conn(ctx).Where("room_id = ?", roomID).Order("date DESC, id DESC").Find(&payments).Error
	return payments, wrap(err, "list payments for room %d", roomID)
}
