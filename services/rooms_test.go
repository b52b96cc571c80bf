// SPDX-License-Identifier: GPL-3.0-only

package services

import (
	"context"
	"math"
	"rentdesk-server/models"
	"rentdesk-server/store"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoom(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	room := h.room(t, " A1 ", 8000)
	assert.Equal(t, "A1", room.RoomNumber)
	assert.Equal(t, "single", room.RoomType)
	assert.Equal(t, models.RoomVacant, room.Status)

	_, err := h.svc.CreateRoom(ctx, CreateRoomInput{RoomNumber: "A1", RentAmount: 9000})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = h.svc.CreateRoom(ctx, CreateRoomInput{RoomNumber: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = h.svc.CreateRoom(ctx, CreateRoomInput{RoomNumber: "B1", RentAmount: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	for _, rent := range []float64{math.Inf(1), math.NaN()} {
		_, err = h.svc.CreateRoom(ctx, CreateRoomInput{RoomNumber: "C1", RentAmount: rent})
		assert.ErrorIs(t, err, ErrInvalidInput, "rent %v", rent)
	}

	views, err := h.svc.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "A1", views[0].RoomNumber)
}

func TestAssignTenantOneToOne(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	jane := h.tenant(t, "jane", nil)
	john := h.tenant(t, "john", nil)
	a1 := h.room(t, "A1", 8000)
	b1 := h.room(t, "B1", 9000)

	room, err := h.svc.AssignTenant(ctx, a1.ID, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomOccupied, room.Status)
	require.NotNil(t, room.TenantID)
	assert.Equal(t, jane.ID, *room.TenantID)

	_, err = h.svc.AssignTenant(ctx, a1.ID, john.ID)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = h.svc.AssignTenant(ctx, b1.ID, jane.ID)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = h.svc.AssignTenant(ctx, 999, john.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	view, err := h.svc.GetTenant(ctx, jane.ID)
	require.NoError(t, err)
	require.NotNil(t, view.RoomNumber)
	assert.Equal(t, "A1", *view.RoomNumber)
}

func TestAssignTenantRejectsMovedOutTenant(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	tenant, err := h.svc.CreateTenant(ctx, CreateTenantInput{
		Name:          "gone",
		Email:         "gone@example.com",
		MovingInDate:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		MovingOutDate: ptr(time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	_, err = h.svc.AssignTenant(ctx, h.room(t, "A1", 8000).ID, tenant.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestVacateRoom(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	tenant, room := h.tenantInRoom(t, "jane", "A1", 8000, nil)

	vacated, err := h.svc.VacateRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomVacant, vacated.Status)
	assert.Nil(t, vacated.TenantID)

	view, err := h.svc.GetTenant(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Nil(t, view.RoomNumber)

	_, err = h.svc.VacateRoom(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
