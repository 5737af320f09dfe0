package repository

import (
	"context"
	"errors"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/entities"
)

// ErrRuleNotFound is returned when a rule ID does not exist.
var ErrRuleNotFound = errors.New("alert rule not found")

// RuleStore handles alert rule persistence.
//
// LoadAll/SaveAll are the monitor loop's view: the full collection is read
// at tick start and written back in one call when runtime fields changed.
// The remaining methods serve the management API.
type RuleStore interface {
	LoadAll(ctx context.Context) ([]entities.AlertRule, error)
	SaveAll(ctx context.Context, rules []entities.AlertRule) error

	List(ctx context.Context, filter RuleFilter) ([]entities.AlertRule, error)
	Get(ctx context.Context, id uint) (*entities.AlertRule, error)
	Create(ctx context.Context, rule *entities.AlertRule) error
	Update(ctx context.Context, rule *entities.AlertRule) error
	Delete(ctx context.Context, id uint) error
	Toggle(ctx context.Context, id uint, enabled bool) error
	CountByName(ctx context.Context, name string) (int64, error)
}

// RuleFilter controls rule listing queries.
type RuleFilter struct {
	Severity string
	Enabled  *bool
	BuiltIn  *bool
}
