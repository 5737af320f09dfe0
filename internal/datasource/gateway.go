// Package datasource fetches the loosely typed records that rules evaluate.
package datasource

import (
	"context"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/entities"
)

// Record is one fetched data record: string-keyed, loosely typed field values.
type Record = map[string]any

// Gateway fetches records for a rule's bound data source.
type Gateway interface {
	Fetch(ctx context.Context, source entities.AlertDataSource) ([]Record, error)
}

// GatewayFunc adapts a function to the Gateway interface.
type GatewayFunc func(ctx context.Context, source entities.AlertDataSource) ([]Record, error)

// Fetch implements Gateway.
func (f GatewayFunc) Fetch(ctx context.Context, source entities.AlertDataSource) ([]Record, error) {
	return f(ctx, source)
}
