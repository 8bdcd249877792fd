package features

import "context"

// Decisions is the set of resolved feature decisions for one operation.
// Each field is derived from exactly one toggle when the value is built.
type Decisions struct {
	SendEmailOnOrderCreation bool `json:"send_email_on_order_creation"`
}

// Binding records which toggle a decision is derived from.
type Binding struct {
	Decision string
	Feature  Feature
}

// Bindings lists every decision and the toggle backing it.
var Bindings = []Binding{
	{Decision: "send_email_on_order_creation", Feature: NewAwesomeFeature},
}

// DecisionsFrom projects a toggle snapshot into Decisions.
// A toggle missing from the set takes its registry default.
func DecisionsFrom(toggles ToggleSet) Decisions {
	return Decisions{
		SendEmailOnOrderCreation: toggles.Enabled(NewAwesomeFeature.Name),
	}
}

// Resolver turns a ToggleSource into Decisions.
type Resolver struct {
	source ToggleSource
}

// NewResolver returns a resolver reading from source.
func NewResolver(source ToggleSource) *Resolver {
	return &Resolver{source: source}
}

// Resolve reads one fresh toggle snapshot and projects it.
// Nothing is cached between calls.
func (r *Resolver) Resolve(ctx context.Context) (Decisions, error) {
	toggles, err := r.source.Toggles(ctx)
	if err != nil {
		return Decisions{}, err
	}
	return DecisionsFrom(toggles), nil
}
