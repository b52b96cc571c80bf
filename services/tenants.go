// SPDX-License-Identifier: GPL-3.0-only

package services

import (
	"context"
	"rentdesk-server/commons"
	"rentdesk-server/models"
	"strings"
	"time"
)

type CreateTenantInput struct {
	Name          string
	Email         string
	Phone         *string
	NationalID    *string
	MovingInDate  time.Time
	MovingOutDate *time.Time
	// EmailNotifications defaults to true when nil.
	EmailNotifications *bool
}

func (s *Service) CreateTenant(ctx context.Context, in CreateTenantInput) (models.TenantView, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" {
		return models.TenantView{}, invalid("name field is required")
	}
	if email == "" {
		return models.TenantView{}, invalid("email field is required")
	}

	movingIn := in.MovingInDate
	if movingIn.IsZero() {
		movingIn = s.now()
	}
	movingIn = models.DateOf(movingIn)

	var movingOut *time.Time
	if in.MovingOutDate != nil {
		d := models.DateOf(*in.MovingOutDate)
		if d.Before(movingIn) {
			return models.TenantView{}, invalid("moving_out_date must not be before moving_in_date")
		}
		movingOut = &d
	}

	notify := true
	if in.EmailNotifications != nil {
		notify = *in.EmailNotifications
	}

	tenant := models.Tenant{
		Name:               name,
		Email:              email,
		Phone:              trimmed(in.Phone),
		NationalID:         trimmed(in.NationalID),
		MovingInDate:       movingIn,
		MovingOutDate:      movingOut,
		EmailNotifications: notify,
	}
	if err := s.store.CreateTenant(ctx, &tenant); err != nil {
		commons.Logger.Errorf("Failed to create tenant: %v", err)
		return models.TenantView{}, err
	}
	commons.Logger.Infof("Tenant created: %d", tenant.ID)
	return tenant.Serialize(nil), nil
}

func (s *Service) GetTenant(ctx context.Context, id uint) (models.TenantView, error) {
	return s.store.TenantView(ctx, id)
}

func (s *Service) ListTenants(ctx context.Context) ([]models.TenantView, error) {
	return s.store.TenantViews(ctx)
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
