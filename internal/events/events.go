// Package events publishes dish and order lifecycle events.
package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type names a lifecycle transition as "<resource>.<action>".
type Type string

const (
	DishCreated  Type = "dish.created"
	DishUpdated  Type = "dish.updated"
	OrderCreated Type = "order.created"
	OrderUpdated Type = "order.updated"
	OrderDeleted Type = "order.deleted"
)

// Resource returns the part of t before the dot.
func (t Type) Resource() string {
	resource, _, _ := strings.Cut(string(t), ".")
	return resource
}

// Event is the message body sent to the configured transport.
type Event struct {
	ID            string    `json:"id"`
	Type          Type      `json:"type"`
	Resource      string    `json:"resource"`
	EntityID      string    `json:"entity_id"`
	Status        string    `json:"status,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// New builds an event for the entity with the given id.
func New(t Type, entityID string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Resource:   t.Resource(),
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers events. Callers treat delivery as best effort.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
