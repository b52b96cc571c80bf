// SPDX-License-Identifier: GPL-3.0-only

package services

import (
	"context"
	"errors"
	"rentdesk-server/crypto"
	"rentdesk-server/db/dbtest"
	"rentdesk-server/events"
	"rentdesk-server/models"
	"rentdesk-server/mpesa"
	"rentdesk-server/notifications"
	"rentdesk-server/passwordcheck"
	"rentdesk-server/store"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/require"
)

type stkCall struct {
	Phone      string
	Amount     float64
	AccountRef string
	Desc       string
}

type fakeGateway struct {
	calls  []stkCall
	result mpesa.Result
}

func (g *fakeGateway) STKPush(_ context.Context, phone string, amount float64, accountRef, desc string) mpesa.Result {
	g.calls = append(g.calls, stkCall{phone, amount, accountRef, desc})
	return g.result
}

// flakyNotifier fails for one recipient and delegates the rest.
type flakyNotifier struct {
	inner  notifications.Notifier
	failTo string
}

func (n flakyNotifier) Send(ctx context.Context, msg notifications.Message) error {
	if msg.To == n.failTo {
		return errors.New("mailbox unavailable")
	}
	return n.inner.Send(ctx, msg)
}

type harness struct {
	svc     *Service
	store   *store.Store
	gateway *fakeGateway
	mail    *notifications.Dispatcher
	events  *events.Recorder
	now     time.Time
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		store:   store.New(dbtest.New(t)),
		gateway: &fakeGateway{},
		mail:    notifications.NewMockDispatcher(),
		events:  &events.Recorder{},
		now:     time.Date(2024, time.June, 3, 10, 0, 0, 0, time.UTC),
	}
	base := []Option{
		WithPublisher(h.events),
		WithHasher(&crypto.PasswordHasher{Params: argon2id.Params{
			Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
		}}),
		WithPasswordValidator(&passwordcheck.Checker{CheckBreached: false}),
		WithClock(func() time.Time { return h.now }),
		WithResetURL("https://app.example.com/reset-password"),
		WithPhoneRegion("KE"),
	}
	h.svc = New(h.store, h.gateway, h.mail, append(base, opts...)...)
	return h
}

func (h *harness) tenant(t *testing.T, name string, phone *string) models.TenantView {
	t.Helper()
	view, err := h.svc.CreateTenant(context.Background(), CreateTenantInput{
		Name:  name,
		Email: name + "@example.com",
		Phone: phone,
	})
	require.NoError(t, err)
	return view
}

func (h *harness) room(t *testing.T, number string, rent float64) models.Room {
	t.Helper()
	room, err := h.svc.CreateRoom(context.Background(), CreateRoomInput{RoomNumber: number, RentAmount: rent})
	require.NoError(t, err)
	return room
}

func (h *harness) tenantInRoom(t *testing.T, name, number string, rent float64, phone *string) (models.TenantView, models.Room) {
	t.Helper()
	tenant := h.tenant(t, name, phone)
	room, err := h.svc.AssignTenant(context.Background(), h.room(t, number, rent).ID, tenant.ID)
	require.NoError(t, err)
	return tenant, room
}

func ptr[T any](v T) *T { return &v }
