// SPDX-License-Identifier: GPL-3.0-only

package services

import (
	"context"
	"rentdesk-server/commons"
	"rentdesk-server/events"
	"rentdesk-server/metrics"
	"rentdesk-server/models"
	"rentdesk-server/notifications"
	"time"

	"github.com/shopspring/decimal"
)

type ReminderReport struct {
	Sent   []uint `json:"sent"`
	Failed []uint `json:"failed"`
}

// SendRentReminders emails every tenant who holds a room, has notifications
// on, has not moved out, and has not been reminded since the start of now's
// month. A failed email leaves the tenant due for the next run.
func (s *Service) SendRentReminders(ctx context.Context, now time.Time) (ReminderReport, error) {
	today := models.DateOf(now)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	tenants, err := s.store.TenantsDueReminder(ctx, today, monthStart)
	if err != nil {
		return ReminderReport{}, err
	}
	commons.Logger.Debugf("%d tenants due a rent reminder", len(tenants))

	report := ReminderReport{Sent: []uint{}, Failed: []uint{}}
	for _, tenant := range tenants {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		sent, err := s.remind(ctx, tenant, today)
		if err != nil {
			commons.Logger.Errorf("Failed to send rent reminder to tenant %d: %v", tenant.ID, err)
			metrics.ObserveRentReminder(metrics.ReminderFailed)
			report.Failed = append(report.Failed, tenant.ID)
			continue
		}
		if !sent {
			continue
		}
		metrics.ObserveRentReminder(metrics.ReminderSent)
		report.Sent = append(report.Sent, tenant.ID)
	}

	commons.Logger.Infof("Rent reminders: %d sent, %d failed", len(report.Sent), len(report.Failed))
	return report, nil
}

// remind reports false when the tenant gave up their room since the query ran.
func (s *Service) remind(ctx context.Context, tenant models.Tenant, today time.Time) (bool, error) {
	room, err := s.store.RoomForTenant(ctx, tenant.ID)
	if err != nil {
		return false, err
	}
	if room == nil {
		return false, nil
	}
	if !finite(room.RentAmount) {
		return false, invalid("room %s has a non-finite rent amount", room.RoomNumber)
	}

	err = s.notifier.Send(ctx, notifications.Message{
		To:       tenant.Email,
		ToName:   &tenant.Name,
		Subject:  "Rent reminder for room " + room.RoomNumber,
		Template: notifications.RentReminderTemplate,
		Variables: map[string]any{
			"Name":       tenant.Name,
			"Amount":     decimal.NewFromFloat(room.RentAmount).StringFixed(2),
			"RoomNumber": room.RoomNumber,
			"Period":     today.Format("January 2006"),
		},
	})
	if err != nil {
		return false, err
	}
	if err := s.store.MarkReminderSent(ctx, tenant.ID, today); err != nil {
		return false, err
	}
	s.publish(ctx, events.RentReminderSent, map[string]any{
		"tenant_id":   tenant.ID,
		"room_number": room.RoomNumber,
		"date":        models.FormatDate(today),
	})
	return true, nil
}
