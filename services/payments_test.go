// SPDX-License-Identifier: GPL-3.0-only

package services

import (
	"context"
	"encoding/json"
	"math"
	"rentdesk-server/events"
	"rentdesk-server/models"
	"rentdesk-server/mpesa"
	"rentdesk-server/store"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPaymentDefaults(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	tenant, room := h.tenantInRoom(t, "jane", "A1", 8000, nil)

	view, err := h.svc.RecordPayment(ctx, RecordPaymentInput{TenantID: tenant.ID, Amount: 8000})
	require.NoError(t, err)
	assert.Equal(t, models.CashPayment, view.PaymentMethod)
	assert.Equal(t, "2024-06-03", view.Date)
	require.NotNil(t, view.RoomID)
	assert.Equal(t, room.ID, *view.RoomID)

	require.Equal(t, []events.Type{events.PaymentRecorded}, h.events.Types())
	var payload models.PaymentView
	require.NoError(t, json.Unmarshal(h.events.Events[0].Payload, &payload))
	assert.Equal(t, view, payload)
}

func TestRecordPaymentExplicitFields(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	tenant := h.tenant(t, "john", nil)
	other := h.room(t, "B2", 6000)

	view, err := h.svc.RecordPayment(ctx, RecordPaymentInput{
		TenantID:        tenant.ID,
		RoomID:          &other.ID,
		Amount:          2500.5,
		Date:            time.Date(2024, time.May, 30, 15, 0, 0, 0, time.UTC),
		Method:          models.BankPayment,
		ReferenceNumber: ptr("TRX-1"),
		Notes:           ptr("partial"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-30", view.Date)
	assert.Equal(t, models.BankPayment, view.PaymentMethod)
	assert.Equal(t, 2500.5, view.Amount)
	require.NotNil(t, view.ReferenceNumber)
	assert.Equal(t, "TRX-1", *view.ReferenceNumber)
}

func TestRecordPaymentWithoutRoom(t *testing.T) {
	h := newHarness(t)
	tenant := h.tenant(t, "roomless", nil)

	view, err := h.svc.RecordPayment(context.Background(), RecordPaymentInput{TenantID: tenant.ID, Amount: 100})
	require.NoError(t, err)
	assert.Nil(t, view.RoomID)
}

func TestRecordPaymentValidation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	tenant := h.tenant(t, "jane", nil)

	_, err := h.svc.RecordPayment(ctx, RecordPaymentInput{TenantID: tenant.ID, Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = h.svc.RecordPayment(ctx, RecordPaymentInput{TenantID: tenant.ID, Amount: -5})
	assert.ErrorIs(t, err, ErrInvalidInput)

	for _, amount := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = h.svc.RecordPayment(ctx, RecordPaymentInput{TenantID: tenant.ID, Amount: amount})
		assert.ErrorIs(t, err, ErrInvalidInput, "amount %v", amount)
	}

	_, err = h.svc.RecordPayment(ctx, RecordPaymentInput{TenantID: tenant.ID, Amount: 10, Method: "mpesa"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = h.svc.RecordPayment(ctx, RecordPaymentInput{TenantID: 999, Amount: 10})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = h.svc.RecordPayment(ctx, RecordPaymentInput{TenantID: tenant.ID, RoomID: ptr(uint(999)), Amount: 10})
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.Empty(t, h.events.Events)
}

func TestListTenantPaymentsNewestFirst(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	tenant := h.tenant(t, "jane", nil)

	for _, d := range []int{1, 15, 7} {
		_, err := h.svc.RecordPayment(ctx, RecordPaymentInput{
			TenantID: tenant.ID, Amount: 100, Date: time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	views, err := h.svc.ListTenantPayments(ctx, tenant.ID)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, "2024-05-15", views[0].Date)
	assert.Equal(t, "2024-05-07", views[1].Date)
	assert.Equal(t, "2024-05-01", views[2].Date)

	_, err = h.svc.ListTenantPayments(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRequestRentPaymentSuccess(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.gateway.result = mpesa.Result{Success: true, Data: map[string]any{"CheckoutRequestID": "ws_CO_9"}}
	tenant, _ := h.tenantInRoom(t, "jane", "A1", 12000.5, ptr("0712345678"))

	res, err := h.svc.RequestRentPayment(ctx, tenant.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)

	require.Len(t, h.gateway.calls, 1)
	call := h.gateway.calls[0]
	assert.Equal(t, "254712345678", call.Phone)
	assert.Equal(t, 12000.5, call.Amount)
	assert.Equal(t, "A1", call.AccountRef)
	assert.Equal(t, "Rent for room A1", call.Desc)

	require.Equal(t, []events.Type{events.STKPushRequested}, h.events.Types())
	var payload STKPushEvent
	require.NoError(t, json.Unmarshal(h.events.Events[0].Payload, &payload))
	assert.Equal(t, "ws_CO_9", payload.CheckoutRequestID)
	assert.Equal(t, tenant.ID, payload.TenantID)
}

func TestRequestRentPaymentGatewayFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.gateway.result = mpesa.Result{Success: false, Message: "Failed to get access token", Failure: mpesa.TokenFailure}
	tenant, _ := h.tenantInRoom(t, "jane", "A1", 8000, ptr("+254712345678"))

	res, err := h.svc.RequestRentPayment(ctx, tenant.ID)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to get access token", res.Message)

	require.Equal(t, []events.Type{events.STKPushFailed}, h.events.Types())
	var payload STKPushEvent
	require.NoError(t, json.Unmarshal(h.events.Events[0].Payload, &payload))
	assert.Equal(t, "Failed to get access token", payload.Message)
}

func TestRequestRentPaymentPreconditions(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	noPhone, _ := h.tenantInRoom(t, "nophone", "A1", 8000, nil)
	_, err := h.svc.RequestRentPayment(ctx, noPhone.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)

	noRoom := h.tenant(t, "noroom", ptr("0712345678"))
	_, err = h.svc.RequestRentPayment(ctx, noRoom.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)

	badPhone, _ := h.tenantInRoom(t, "badphone", "B1", 8000, ptr("12345"))
	_, err = h.svc.RequestRentPayment(ctx, badPhone.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = h.svc.RequestRentPayment(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)

	infinite := h.tenant(t, "infinite", ptr("0712345678"))
	room := models.Room{RoomNumber: "C1", RentAmount: math.Inf(1)}
	require.NoError(t, h.store.CreateRoom(ctx, &room))
	require.NoError(t, h.store.AssignTenant(ctx, room.ID, infinite.ID))
	_, err = h.svc.RequestRentPayment(ctx, infinite.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, h.gateway.calls)
	assert.Empty(t, h.events.Events)
}
