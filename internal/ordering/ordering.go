// Package ordering creates orders, choosing the creation behavior from
// resolved feature decisions.
package ordering

import (
	"context"
	"errors"
	"fmt"

	"github.com/marcus/ordr/internal/features"
	"github.com/marcus/ordr/internal/models"
)

// ErrNotify wraps failures of the creation notice, which happen after the order is stored.
var ErrNotify = errors.New("notification failed")

// OrderStore persists an order header.
type OrderStore interface {
	Save(ctx context.Context, order models.Order) error
}

// OrderItemStore persists the line items of an order.
type OrderItemStore interface {
	SaveMany(ctx context.Context, orderID int64, items []models.OrderItem) error
}

// Notifier tells the client about a newly created order.
type Notifier interface {
	SendCreationNotice(ctx context.Context, order models.Order) error
}

// Collaborators groups the external dependencies of order creation.
type Collaborators struct {
	Orders   OrderStore
	Items    OrderItemStore
	Notifier Notifier
}

// Variant names an order-creation behavior.
type Variant string

const (
	// VariantBase stores the order and its items.
	VariantBase Variant = "base"
	// VariantExtended stores the order and its items, then sends a creation notice.
	VariantExtended Variant = "extended"
)

// OrderCreator is one concrete order-creation behavior.
type OrderCreator interface {
	Variant() Variant
	CreateOrder(ctx context.Context, order models.Order) error
}

// Select returns the creator matching d. It has no side effects.
func Select(d features.Decisions, c Collaborators) OrderCreator {
	base := baseCreator{orders: c.Orders, items: c.Items}
	if d.SendEmailOnOrderCreation {
		return extendedCreator{base: base, notifier: c.Notifier}
	}
	return base
}

type baseCreator struct {
	orders OrderStore
	items  OrderItemStore
}

func (baseCreator) Variant() Variant { return VariantBase }

func (b baseCreator) CreateOrder(ctx context.Context, order models.Order) error {
	if err := b.orders.Save(ctx, order); err != nil {
		return fmt.Errorf("save order %d: %w", order.ID, err)
	}
	if err := b.items.SaveMany(ctx, order.ID, order.Items); err != nil {
		return fmt.Errorf("save items of order %d: %w", order.ID, err)
	}
	return nil
}

type extendedCreator struct {
	base     baseCreator
	notifier Notifier
}

func (extendedCreator) Variant() Variant { return VariantExtended }

// CreateOrder notifies only after both persistence steps succeed.
func (e extendedCreator) CreateOrder(ctx context.Context, order models.Order) error {
	if err := e.base.CreateOrder(ctx, order); err != nil {
		return err
	}
	if err := e.notifier.SendCreationNotice(ctx, order); err != nil {
		return fmt.Errorf("notify order %d: %w: %w", order.ID, ErrNotify, err)
	}
	return nil
}
