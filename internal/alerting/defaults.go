package alerting

import (
	"context"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/entities"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/logger"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/repository"
)

// DefaultRules returns the built-in starter rules seeded on first run.
// They ship disabled except the banner-only examples, so a fresh install
// never emails anyone by accident.
func DefaultRules() []entities.AlertRule {
	return []entities.AlertRule{
		{
			Name:        "Overdue tasks",
			Description: "Flags tasks whose due date has passed and are not complete",
			Severity:    SeverityWarning,
			Status:      StatusActive,
			Enabled:     true,
			BuiltIn:     true,
			DataSource: entities.AlertDataSource{
				Kind:       entities.SourceKindList,
				ListName:   "Tasks",
				Fields:     []string{"Title", "Status", "DueDate"},
				MaxRecords: 50,
			},
			Conditions: []entities.AlertCondition{
				{Field: "Status", Operator: OperatorNotEquals, Value: "Completed", SortOrder: 0},
				{Field: "DueDate", Operator: OperatorIsNotEmpty, LogicalOperator: LogicalAnd, SortOrder: 1},
			},
			Actions: []entities.AlertAction{
				{Channel: ChannelBanner, Enabled: true, AutoDismissSec: 30, SortOrder: 0},
			},
			CheckIntervalSec: 300,
			CooldownMin:      60,
			MaxPerDay:        10,
		},
		{
			Name:        "High-priority item created",
			Description: "Notifies when an item with critical priority appears",
			Severity:    SeverityCritical,
			Status:      StatusActive,
			Enabled:     true,
			BuiltIn:     true,
			DataSource: entities.AlertDataSource{
				Kind:       entities.SourceKindList,
				ListName:   "Issues",
				Fields:     []string{"Title", "Priority"},
				MaxRecords: 25,
			},
			Conditions: []entities.AlertCondition{
				{Field: "Priority", Operator: OperatorEquals, Value: "Critical", SortOrder: 0},
			},
			Actions: []entities.AlertAction{
				{Channel: ChannelBanner, Enabled: true, AutoDismissSec: 0, SortOrder: 0},
			},
			CheckIntervalSec: 120,
			CooldownMin:      30,
			MaxPerDay:        20,
		},
		{
			Name:        "Directory sync stalled",
			Description: "Watches the directory feed for a stale sync marker",
			Severity:    SeverityInfo,
			Status:      StatusActive,
			Enabled:     false,
			BuiltIn:     true,
			DataSource: entities.AlertDataSource{
				Kind:     entities.SourceKindDirectory,
				Endpoint: "sync/status",
				Fields:   []string{"lastSync", "state"},
			},
			Conditions: []entities.AlertCondition{
				{Field: "state", Operator: OperatorChanged, SortOrder: 0},
			},
			Actions: []entities.AlertAction{
				{Channel: ChannelBanner, Enabled: true, AutoDismissSec: 60, SortOrder: 0},
			},
			CheckIntervalSec: 600,
			CooldownMin:      120,
			MaxPerDay:        5,
			ActiveHoursStart: "07:00",
			ActiveHoursEnd:   "19:00",
		},
	}
}

// SeedDefaultRules ensures all built-in rules exist, checking by name so
// partial seeds from previous runs self-heal on restart.
func SeedDefaultRules(ctx context.Context, store repository.RuleStore, log logger.Logger) error {
	existing, err := store.List(ctx, repository.RuleFilter{})
	if err != nil {
		return err
	}

	existingNames := make(map[string]struct{}, len(existing))
	for i := range existing {
		existingNames[existing[i].Name] = struct{}{}
	}

	defaults := DefaultRules()
	var created int
	for i := range defaults {
		if _, exists := existingNames[defaults[i].Name]; exists {
			continue
		}
		if err := store.Create(ctx, &defaults[i]); err != nil {
			return err
		}
		created++
	}
	if created > 0 {
		log.Info("seeded default alert rules", logger.Int("created", created))
	}
	return nil
}
