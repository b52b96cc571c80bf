// SPDX-License-Identifier: GPL-3.0-only

package store

import (
	"context"
	"rentdesk-server/models"
	"time"
)

func (s *Store) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	return wrap(s.conn(ctx).Create(tenant).Error, "create tenant %s", tenant.Name)
}

func (s *Store) GetTenant(ctx context.Context, id uint) (models.Tenant, error) {
	var tenant models.Tenant
	err := s.conn(ctx).First(&tenant, id).Error
	return tenant, wrap(err, "get tenant %d", id)
}

func (s *Store) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := s.conn(ctx).Order("id").Find(&tenants).Error
	return tenants, wrap(err, "list tenants")
}

// TenantView loads a tenant and the room it holds, then serializes both.
func (s *Store) TenantView(ctx context.Context, id uint) (models.TenantView, error) {
	tenant, err := s.GetTenant(ctx, id)
	if err != nil {
		return models.TenantView{}, err
	}
	room, err := s.RoomForTenant(ctx, id)
	if err != nil {
		return models.TenantView{}, err
	}
	return tenant.Serialize(room), nil
}

// TenantViews serializes every tenant using a single rooms query.
func (s *Store) TenantViews(ctx context.Context) ([]models.TenantView, error) {
	tenants, err := s.ListTenants(ctx)
	if err != nil {
		return nil, err
	}

	var rooms []models.Room
	if err := s.conn(ctx).Where("tenant_id IS NOT NULL").Order("id").Find(&rooms).Error; err != nil {
		return nil, wrap(err, "list occupied rooms")
	}
	byTenant := make(map[uint]*models.Room, len(rooms))
	for i := range rooms {
		if _, seen := byTenant[*rooms[i].TenantID]; !seen {
			byTenant[*rooms[i].TenantID] = &rooms[i]
		}
	}

	views := make([]models.TenantView, 0, len(tenants))
	for _, tenant := range tenants {
		views = append(views, tenant.Serialize(byTenant[tenant.ID]))
	}
	return views, nil
}

// TenantsDueReminder returns tenants with notifications on, a room, still in
// residence on day, and no reminder sent on or after since.
func (s *Store) TenantsDueReminder(ctx context.Context, day, since time.Time) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := s.conn(ctx).
		Where("email_notifications = ?", true).
		Where("moving_out_date IS NULL OR moving_out_date > ?", day).
		Where("last_reminder_sent IS NULL OR last_reminder_sent < ?", since).
		Where("id IN (?)", s.conn(ctx).Model(&models.Room{}).Select("tenant_id").Where("tenant_id IS NOT NULL")).
		Order("id").
		Find(&tenants).Error
	return tenants, wrap(err, "list tenants due a reminder")
}

func (s *Store) MarkReminderSent(ctx context.Context, tenantID uint, day time.Time) error {
	result := s.conn(ctx).Model(&models.Tenant{}).Where("id = ?", tenantID).Update("last_reminder_sent", day)
	if result.Error != nil {
		return wrap(result.Error, "mark reminder sent for tenant %d", tenantID)
	}
	if result.RowsAffected == 0 {
		return wrap(ErrNotFound, "mark reminder sent for tenant %d", tenantID)
	}
	return nil
}
