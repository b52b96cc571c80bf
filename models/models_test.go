// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantSerializeWithRoom(t *testing.T) {
	phone := "254712345678"
	tenant := Tenant{
		ID:                 7,
		Name:               "Jane Wanjiku",
		Email:              "jane@example.com",
		Phone:              &phone,
		MovingInDate:       time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		EmailNotifications: true,
	}
	room := &Room{ID: 3, RoomNumber: "A1"}

	view := tenant.Serialize(room)

	require.NotNil(t, view.RoomNumber)
	assert.Equal(t, "A1", *view.RoomNumber)
	assert.Equal(t, "2024-03-01", view.MovingInDate)
	assert.Nil(t, view.MovingOutDate)
	assert.True(t, view.EmailNotifications)
}

func TestTenantSerializeWithoutRoom(t *testing.T) {
	out := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	tenant := Tenant{
		ID:            8,
		Name:          "Otieno",
		Email:         "otieno@example.com",
		MovingInDate:  time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		MovingOutDate: &out,
	}

	data, err := json.Marshal(tenant.Serialize(nil))
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Contains(t, payload, "room_number")
	assert.Nil(t, payload["room_number"])
	assert.Equal(t, "2024-12-31", payload["moving_out_date"])
	assert.Nil(t, payload["phone"])
}

func TestTenantHasMovedOut(t *testing.T) {
	day := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	tenant := Tenant{MovingInDate: day.AddDate(0, -3, 0)}
	assert.False(t, tenant.HasMovedOut(day))

	out := day
	tenant.MovingOutDate = &out
	assert.True(t, tenant.HasMovedOut(day))
	assert.False(t, tenant.HasMovedOut(day.AddDate(0, 0, -1)))
}

func TestUserSerializeOmitsSecrets(t *testing.T) {
	token := "legacy"
	user := User{
		ID:         1,
		Email:      "manager@example.com",
		Username:   "manager",
		Password:   "$argon2id$v=19$secret",
		Role:       RoleManager,
		ResetToken: &token,
	}

	data, err := json.Marshal(user.Serialize())
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Len(t, payload, 4)
	assert.NotContains(t, payload, "password")
	assert.NotContains(t, payload, "reset_token")
	assert.Equal(t, "manager", payload["role"])
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleManager.Valid())
	assert.True(t, RoleLandlord.Valid())
	assert.False(t, Role("tenant").Valid())
	assert.False(t, Role("").Valid())
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, CashPayment.Valid())
	assert.True(t, BankPayment.Valid())
	assert.False(t, PaymentMethod("mpesa").Valid())
}

func TestPasswordResetTokenIsValidAt(t *testing.T) {
	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token PasswordResetToken
		want  bool
	}{
		{"unused and unexpired", PasswordResetToken{ExpiresAt: now.Add(time.Hour)}, true},
		{"used before expiry", PasswordResetToken{Used: true, ExpiresAt: now.Add(time.Hour)}, false},
		{"expires exactly now", PasswordResetToken{ExpiresAt: now}, false},
		{"expired", PasswordResetToken{ExpiresAt: now.Add(-time.Minute)}, false},
		{"used and expired", PasswordResetToken{Used: true, ExpiresAt: now.Add(-time.Minute)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.token.IsValidAt(now))
		})
	}
}

func TestPasswordResetTokenSerialize(t *testing.T) {
	expires := time.Date(2024, time.May, 1, 13, 0, 0, 0, time.UTC)
	view := PasswordResetToken{ID: 4, Token: "prt_abc", ExpiresAt: expires}.Serialize()

	assert.Equal(t, "2024-05-01T13:00:00Z", view.ExpiresAt)
	assert.False(t, view.Used)
}

func TestPaymentSerialize(t *testing.T) {
	ref := "RCPT-001"
	roomID := uint(2)
	view := Payment{
		ID:              9,
		Amount:          12500,
		Date:            time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC),
		TenantID:        3,
		RoomID:          &roomID,
		PaymentMethod:   BankPayment,
		ReferenceNumber: &ref,
	}.Serialize()

	assert.Equal(t, "2024-02-05", view.Date)
	assert.Equal(t, BankPayment, view.PaymentMethod)
	assert.Equal(t, &ref, view.ReferenceNumber)
	assert.Nil(t, view.Notes)
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2024, time.July, 9, 18, 45, 12, 5, time.UTC)
	assert.Equal(t, time.Date(2024, time.July, 9, 0, 0, 0, 0, time.UTC), DateOf(ts))
}
