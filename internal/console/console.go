// Package console provides collaborators that print what they would do
// instead of persisting or sending anything.
package console

import (
	"context"
	"fmt"
	"io"

	"github.com/marcus/ordr/internal/models"
)

// OrderStore prints one line per saved order.
type OrderStore struct {
	W io.Writer
}

// Save prints the order header.
func (s OrderStore) Save(ctx context.Context, order models.Order) error {
	_, err := fmt.Fprintf(s.W, "Saving order %d for client %d\n", order.ID, order.ClientID)
	return err
}

// ItemStore prints one line per batch of saved items.
type ItemStore struct {
	W io.Writer
}

// SaveMany prints the batch and each item in it.
func (s ItemStore) SaveMany(ctx context.Context, orderID int64, items []models.OrderItem) error {
	if _, err := fmt.Fprintf(s.W, "Saving %d items for order %d\n", len(items), orderID); err != nil {
		return err
	}
	for _, item := range items {
		if _, err := fmt.Fprintf(s.W, "  item %d: product %d x %d\n", item.ID, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// EmailNotifier prints the email it would send.
type EmailNotifier struct {
	W io.Writer
}

// SendCreationNotice prints the notice.
func (n EmailNotifier) SendCreationNotice(ctx context.Context, order models.Order) error {
	_, err := fmt.Fprintf(n.W, "Sending email about order %d to client %d\n", order.ID, order.ClientID)
	return err
}
