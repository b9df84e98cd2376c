package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CartEventType string

const (
	CartItemAdded       CartEventType = "cart.item_added"
	CartQuantityUpdated CartEventType = "cart.quantity_updated"
	CartItemRemoved     CartEventType = "cart.item_removed"
)

// CartEvent describes one applied cart mutation. Quantity is the amount added
// for item_added and the new quantity for quantity_updated.
type CartEvent struct {
	ID         string        `json:"id"`
	Type       CartEventType `json:"type"`
	Email      string        `json:"email"`
	ProductID  string        `json:"productId"`
	Quantity   int           `json:"quantity,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
}

func NewCartEvent(t CartEventType, email, productID string, quantity int) CartEvent {
	return CartEvent{
		ID:         uuid.NewString(),
		Type:       t,
		Email:      email,
		ProductID:  productID,
		Quantity:   quantity,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event CartEvent) error
	Close() error
}

// NopPublisher drops events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, CartEvent) error { return nil }
func (NopPublisher) Close() error                             { return nil }
