package activity

import (
	"context"
	"time"

	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/domain"
	"github.com/google/uuid"
)

const DefaultTopic = "storefront-activity"

type Action string

const (
	ActionAddToCart          Action = "add_to_cart"
	ActionRemoveFromCart     Action = "remove_from_cart"
	ActionUpdateQuantity     Action = "update_quantity"
	ActionAddToWishlist      Action = "add_to_wishlist"
	ActionRemoveFromWishlist Action = "remove_from_wishlist"
	ActionToggleWishlist     Action = "toggle_wishlist"
	ActionMoveToCart         Action = "move_to_cart"
	ActionAddToCompare       Action = "add_to_compare"
	ActionRemoveFromCompare  Action = "remove_from_compare"
)

// Event records one store mutation and its outcome.
type Event struct {
	ID        string        `json:"id"`
	SessionID string        `json:"session_id"`
	Action    Action        `json:"action"`
	ProductID int64         `json:"product_id"`
	Result    domain.Result `json:"result"`
	At        time.Time     `json:"at"`
}

func NewEvent(sessionID string, action Action, productID int64, result domain.Result) Event {
	return Event{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Action:    action,
		ProductID: productID,
		Result:    result,
		At:        time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }
