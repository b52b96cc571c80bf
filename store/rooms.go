// SPDX-License-Identifier: GPL-3.0-only

package store

import (
	"context"
	"rentdesk-server/models"
)

func (s *Store) CreateRoom(ctx context.Context, room *models.Room) error {
	return wrap(s.conn(ctx).Create(room).Error, "create room %s", room.RoomNumber)
}

func (s *Store) GetRoom(ctx context.Context, id uint) (models.Room, error) {
	var room models.Room
	err := s.conn(ctx).First(&room, id).Error
	return room, wrap(err, "get room %d", id)
}

func (s *Store) GetRoomByNumber(ctx context.Context, roomNumber string) (models.Room, error) {
	var room models.Room
	err := s.conn(ctx).Where("room_number = ?", roomNumber).First(&room).Error
	return room, wrap(err, "get room %s", roomNumber)
}

// RoomForTenant returns the room currently held by tenantID, or nil.
func (s *Store) RoomForTenant(ctx context.Context, tenantID uint) (*models.Room, error) {
	var rooms []models.Room
	if err := s.conn(ctx).Where("tenant_id = ?", tenantID).Order("id").Limit(1).Find(&rooms).Error; err != nil {
		return nil, wrap(err, "get room for tenant %d", tenantID)
	}
	if len(rooms) == 0 {
		return nil, nil
	}
	return &rooms[0], nil
}

func (s *Store) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := s.conn(ctx).Order("room_number").Find(&rooms).Error
	return rooms, wrap(err, "list rooms")
}

func (s *Store) AssignTenant(ctx context.Context, roomID, tenantID uint) error {
	result := s.conn(ctx).Model(&models.Room{}).Where("id = ?", roomID).
		Updates(map[string]any{"tenant_id": tenantID, "status": models.RoomOccupied})
	if result.Error != nil {
		return wrap(result.Error, "assign tenant %d to room %d", tenantID, roomID)
	}
	if result.RowsAffected == 0 {
		return wrap(ErrNotFound, "assign tenant %d to room %d", tenantID, roomID)
	}
	return nil
}

func (s *Store) VacateRoom(ctx context.Context, roomID uint) error {
	result := s.conn(ctx).Model(&models.Room{}).Where("id = ?", roomID).
		Updates(map[string]any{"tenant_id": nil, "status": models.RoomVacant})
	if result.Error != nil {
		return wrap(result.Error, "vacate room %d", roomID)
	}
	if result.RowsAffected == 0 {
		return wrap(ErrNotFound, "vacate room %d", roomID)
	}
	return nil
}
