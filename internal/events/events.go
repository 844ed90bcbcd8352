// Package events publishes order and payment lifecycle events for downstream
// consumers such as notifications and fulfilment.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TypeOrderCreated         = "order.created"
	TypeOrderCancelled       = "order.cancelled"
	TypeOrderStatusChanged   = "order.status_changed"
	TypePaymentIntentCreated = "payment.intent_created"
	TypePaymentVerified      = "payment.verified"
)

type Event struct {
	ID          string                 `json:"event_id"`
	Type        string                 `json:"event_type"`
	AggregateID string                 `json:"aggregate_id"`
	OccurredAt  time.Time              `json:"occurred_at"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType, aggregateID string, data map[string]interface{}) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Data:        data,
	}
}

// Publisher delivers events. Publishing is best effort: callers log failures
// and never roll back a committed state change because of them.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
