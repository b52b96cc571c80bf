// SPDX-License-Identifier: GPL-3.0-only

package services

import (
	"context"
	"errors"
	"rentdesk-server/commons"
	"rentdesk-server/models"
	"rentdesk-server/store"
	"strings"
)

type CreateRoomInput struct {
	RoomNumber string
	RoomType   string
	RentAmount float64
}

func (s *Service) CreateRoom(ctx context.Context, in CreateRoomInput) (models.Room, error) {
	number := strings.TrimSpace(in.RoomNumber)
	if number == "" {
		return models.Room{}, invalid("room_number field is required")
	}
	if !finite(in.RentAmount) || in.RentAmount < 0 {
		return models.Room{}, invalid("rent_amount must be a non-negative number")
	}

	if _, err := s.store.GetRoomByNumber(ctx, number); err == nil {
		return models.Room{}, conflict("room %s already exists", number)
	} else if !errors.Is(err, store.ErrNotFound) {
		return models.Room{}, err
	}

	room := models.Room{RoomNumber: number, RoomType: strings.TrimSpace(in.RoomType), RentAmount: in.RentAmount}
	if err := s.store.CreateRoom(ctx, &room); err != nil {
		commons.Logger.Errorf("Failed to create room: %v", err)
		return models.Room{}, err
	}
	commons.Logger.Infof("Room created: %s", room.RoomNumber)
	return room, nil
}

func (s *Service) ListRooms(ctx context.Context) ([]models.RoomView, error) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]models.RoomView, 0, len(rooms))
	for _, room := range rooms {
		views = append(views, room.Serialize())
	}
	return views, nil
}

// AssignTenant moves a tenant into a vacant room. A room holds at most one
// tenant and a tenant holds at most one room.
func (s *Service) AssignTenant(ctx context.Context, roomID, tenantID uint) (models.Room, error) {
	var room models.Room
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		current, err := tx.GetRoom(ctx, roomID)
		if err != nil {
			return err
		}
		tenant, err := tx.GetTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		if current.TenantID != nil {
			return conflict("room %s is already occupied", current.RoomNumber)
		}
		if tenant.HasMovedOut(models.DateOf(s.now())) {
			return invalid("tenant %d has moved out", tenantID)
		}
		held, err := tx.RoomForTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		if held != nil {
			return conflict("tenant %d already holds room %s", tenantID, held.RoomNumber)
		}
		if err := tx.AssignTenant(ctx, roomID, tenantID); err != nil {
			return err
		}
		room, err = tx.GetRoom(ctx, roomID)
		return err
	})
	if err != nil {
		commons.Logger.Errorf("Failed to assign tenant %d to room %d: %v", tenantID, roomID, err)
		return models.Room{}, err
	}
	commons.Logger.Infof("Tenant %d assigned to room %s", tenantID, room.RoomNumber)
	return room, nil
}

func (s *Service) VacateRoom(ctx context.Context, roomID uint) (models.Room, error) {
	if err := s.store.VacateRoom(ctx, roomID); err != nil {
		commons.Logger.Errorf("Failed to vacate room %d: %v", roomID, err)
		return models.Room{}, err
	}
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return models.Room{}, err
	}
	commons.Logger.Infof("Room vacated: %s", room.RoomNumber)
	return room, nil
}
