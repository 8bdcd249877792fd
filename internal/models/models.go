package models

import (
	"errors"
	"fmt"
)

// ErrInvalidOrder is returned when an order fails validation.
var ErrInvalidOrder = errors.New("invalid order")

// Order is an order header with its line items.
type Order struct {
	ID       int64       `json:"id"`
	ClientID int64       `json:"client_id"`
	Items    []OrderItem `json:"items"`
}

// OrderItem is a single order line.
type OrderItem struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// TotalQuantity sums the quantity of every line item.
func (o Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// Validate checks ids and quantities. Duplicate item ids are rejected.
func (o Order) Validate() error {
	if o.ID <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidOrder, o.ID)
	}
	if o.ClientID <= 0 {
		return fmt.Errorf("%w: client id must be positive, got %d", ErrInvalidOrder, o.ClientID)
	}
	seen := make(map[int64]bool, len(o.Items))
	for _, item := range o.Items {
		if item.ID <= 0 {
			return fmt.Errorf("%w: item id must be positive, got %d", ErrInvalidOrder, item.ID)
		}
		if item.ProductID <= 0 {
			return fmt.Errorf("%w: item %d: product id must be positive", ErrInvalidOrder, item.ID)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d: quantity must be positive", ErrInvalidOrder, item.ID)
		}
		if seen[item.ID] {
			return fmt.Errorf("%w: duplicate item id %d", ErrInvalidOrder, item.ID)
		}
		seen[item.ID] = true
	}
	return nil
}

// WebhookConfig holds webhook notification settings.
type WebhookConfig struct {
	URL    string `json:"url,omitempty"`
	Secret string `json:"secret,omitempty"`
}

// Config is the project-local configuration stored in .ordr/config.json.
type Config struct {
	FeatureFlags map[string]bool `json:"feature_flags,omitempty"`
	Webhook      *WebhookConfig  `json:"webhook,omitempty"`
	// DefaultStore selects the order store when --store is not given ("console" or "sqlite").
	DefaultStore string `json:"default_store,omitempty"`
}
