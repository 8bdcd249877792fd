package ordering

import (
	"context"
	"log/slog"

	"github.com/marcus/ordr/internal/features"
	"github.com/marcus/ordr/internal/models"
)

// Resolver produces the decisions governing one operation.
type Resolver interface {
	Resolve(ctx context.Context) (features.Decisions, error)
}

// Result describes how an order was created.
type Result struct {
	Order     models.Order       `json:"order"`
	Variant   Variant            `json:"variant"`
	Decisions features.Decisions `json:"decisions"`
}

// Service creates orders, resolving decisions once per call.
type Service struct {
	resolver Resolver
	collab   Collaborators
	logger   *slog.Logger
}

// NewService returns a Service. A nil logger uses slog.Default().
func NewService(resolver Resolver, collab Collaborators, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{resolver: resolver, collab: collab, logger: logger}
}

// CreateOrder validates order, resolves decisions, and runs the selected variant.
func (s *Service) CreateOrder(ctx context.Context, order models.Order) (Result, error) {
	if err := order.Validate(); err != nil {
		return Result{}, err
	}

	decisions, err := s.resolver.Resolve(ctx)
	if err != nil {
		return Result{}, err
	}

	creator := Select(decisions, s.collab)
	s.logger.Debug("ordering: selected variant",
		"order_id", order.ID,
		"variant", creator.Variant(),
		"send_email", decisions.SendEmailOnOrderCreation)

	if err := creator.CreateOrder(ctx, order); err != nil {
		s.logger.Debug("ordering: create failed", "order_id", order.ID, "err", err)
		return Result{}, err
	}

	return Result{Order: order, Variant: creator.Variant(), Decisions: decisions}, nil
}
