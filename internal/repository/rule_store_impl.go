package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/entities"
)

// ruleStore implements RuleStore on gorm.
type ruleStore struct {
	db *gorm.DB
}

// NewRuleStore creates a RuleStore and migrates its tables.
func NewRuleStore(db *gorm.DB) (RuleStore, error) {
	if err := db.AutoMigrate(&entities.AlertRule{}, &entities.AlertCondition{}, &entities.AlertAction{}); err != nil {
		return nil, fmt.Errorf("failed to migrate rule tables: %w", err)
	}
	return &ruleStore{db: db}, nil
}

// LoadAll returns every rule with conditions and actions, in stored order.
func (r *ruleStore) LoadAll(ctx context.Context) ([]entities.AlertRule, error) {
	var rules []entities.AlertRule
	err := r.db.WithContext(ctx).
		Preload("Conditions", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Preload("Actions", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Order("id ASC").Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load alert rules: %w", err)
	}
	return rules, nil
}

// SaveAll writes back runtime state for the given rules in one transaction.
// Only the fields the monitor loop is allowed to mutate are updated, so a
// concurrent edit through the API cannot be clobbered by a tick write-back.
func (r *ruleStore) SaveAll(ctx context.Context, rules []entities.AlertRule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rules {
			rule := &rules[i]
			err := tx.Model(&entities.AlertRule{}).Where("id = ?", rule.ID).
				Updates(map[string]any{
					"last_triggered": rule.LastTriggered,
					"last_checked":   rule.LastChecked,
					"trigger_count":  rule.TriggerCount,
					"status":         rule.Status,
				}).Error
			if err != nil {
				return fmt.Errorf("failed to save rule %d runtime state: %w", rule.ID, err)
			}
		}
		return nil
	})
}

// List returns alert rules matching the given filter.
func (r *ruleStore) List(ctx context.Context, filter RuleFilter) ([]entities.AlertRule, error) {
	var rules []entities.AlertRule
	query := r.db.WithContext(ctx).Preload("Conditions").Preload("Actions")

	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	if filter.Enabled != nil {
		query = query.Where("enabled = ?", *filter.Enabled)
	}
	if filter.BuiltIn != nil {
		query = query.Where("built_in = ?", *filter.BuiltIn)
	}

	if err := query.Order("id ASC").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to list alert rules: %w", err)
	}
	return rules, nil
}

// Get returns a single rule by ID with its conditions and actions.
func (r *ruleStore) Get(ctx context.Context, id uint) (*entities.AlertRule, error) {
	var rule entities.AlertRule
	if err := r.db.WithContext(ctx).Preload("Conditions").Preload("Actions").First(&rule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to get alert rule %d: %w", id, err)
	}
	return &rule, nil
}

// Create inserts a new rule with its conditions and actions.
func (r *ruleStore) Create(ctx context.Context, rule *entities.AlertRule) error {
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return fmt.Errorf("failed to create alert rule: %w", err)
	}
	return nil
}

// Update replaces a rule, deleting existing conditions and actions first.
func (r *ruleStore) Update(ctx context.Context, rule *entities.AlertRule) error {
	if rule.ID == 0 {
		return fmt.Errorf("failed to update alert rule: missing rule ID")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("rule_id = ?", rule.ID).Delete(&entities.AlertCondition{}).Error; err != nil {
			return fmt.Errorf("failed to delete old conditions: %w", err)
		}
		if err := tx.Where("rule_id = ?", rule.ID).Delete(&entities.AlertAction{}).Error; err != nil {
			return fmt.Errorf("failed to delete old actions: %w", err)
		}
		// Zero out IDs so GORM inserts new rows instead of trying to update deleted ones
		for i := range rule.Conditions {
			rule.Conditions[i].ID = 0
		}
		for i := range rule.Actions {
			rule.Actions[i].ID = 0
		}
		if err := tx.Save(rule).Error; err != nil {
			return fmt.Errorf("failed to update alert rule: %w", err)
		}
		return nil
	})
}

// Delete removes a rule; conditions and actions cascade.
func (r *ruleStore) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.AlertRule{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete alert rule %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// Toggle enables or disables a rule.
func (r *ruleStore) Toggle(ctx context.Context, id uint, enabled bool) error {
	result := r.db.WithContext(ctx).Model(&entities.AlertRule{}).Where("id = ?", id).Update("enabled", enabled)
	if result.Error != nil {
		return fmt.Errorf("failed to toggle alert rule %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// CountByName returns the number of rules with the given name.
func (r *ruleStore) CountByName(ctx context.Context, name string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.AlertRule{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count rules by name: %w", err)
	}
	return count, nil
}
