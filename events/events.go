// SPDX-License-Identifier: GPL-3.0-only

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	PaymentRecorded    Type = "payment.recorded"
	STKPushRequested   Type = "stkpush.requested"
	STKPushFailed      Type = "stkpush.failed"
	RentReminderSent   Type = "reminder.sent"
)

// Event is the envelope published for every payment lifecycle change. The
// Type doubles as the AMQP routing key.
type Event struct {
	ID         uuid.UUID       `json:"id"`
	Type       Type            `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

func NewEvent(t Type, occurredAt time.Time, payload any) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", t, err)
	}
	return Event{
		ID:         uuid.New(),
		Type:       t,
		OccurredAt: occurredAt.UTC(),
		Payload:    body,
	}, nil
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.Events = append(r.Events, event)
	return nil
}

// Types lists the recorded event types in publish order.
func (r *Recorder) Types() []Type {
	out := make([]Type, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Type)
	}
	return out
}
