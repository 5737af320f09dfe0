package repository

import (
	"encoding/json"
	"fmt"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/entities"
)

// The legacy persisted format stores the rule collection as one serialized
// JSON array in which each rule's data_source, conditions and actions fields
// are themselves JSON-encoded *strings* nested inside the rule object, two
// layers of text encoding for those three fields. In memory we always use
// structured entities; this codec exists only at the import/export boundary
// so previously persisted rule sets remain readable and writable.

// legacyRule mirrors the legacy rule record with string-encoded sub-documents.
type legacyRule struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Severity         string `json:"severity"`
	Status           string `json:"status"`
	Enabled          bool   `json:"enabled"`
	DataSource       string `json:"dataSource"`
	Conditions       string `json:"conditions"`
	Actions          string `json:"actions"`
	CheckIntervalSec int    `json:"checkIntervalSeconds"`
	CooldownMin      int    `json:"cooldownMinutes"`
	MaxPerDay        int    `json:"maxNotificationsPerDay"`
	ActiveHoursStart string `json:"activeHoursStart"`
	ActiveHoursEnd   string `json:"activeHoursEnd"`
	LastTriggered    string `json:"lastTriggered"`
	LastChecked      string `json:"lastChecked"`
	TriggerCount     int    `json:"triggerCount"`
}

// EncodeLegacyCollection serializes rules into the legacy double-encoded
// single-array format.
func EncodeLegacyCollection(rules []entities.AlertRule) ([]byte, error) {
	out := make([]legacyRule, 0, len(rules))
	for i := range rules {
		rule := &rules[i]

		ds, err := json.Marshal(rule.DataSource)
		if err != nil {
			return nil, fmt.Errorf("failed to encode data source for rule %d: %w", rule.ID, err)
		}
		conds, err := json.Marshal(rule.Conditions)
		if err != nil {
			return nil, fmt.Errorf("failed to encode conditions for rule %d: %w", rule.ID, err)
		}
		actions, err := json.Marshal(rule.Actions)
		if err != nil {
			return nil, fmt.Errorf("failed to encode actions for rule %d: %w", rule.ID, err)
		}

		lr := legacyRule{
			ID:               rule.ID,
			Name:             rule.Name,
			Description:      rule.Description,
			Severity:         rule.Severity,
			Status:           rule.Status,
			Enabled:          rule.Enabled,
			DataSource:       string(ds),
			Conditions:       string(conds),
			Actions:          string(actions),
			CheckIntervalSec: rule.CheckIntervalSec,
			CooldownMin:      rule.CooldownMin,
			MaxPerDay:        rule.MaxPerDay,
			ActiveHoursStart: rule.ActiveHoursStart,
			ActiveHoursEnd:   rule.ActiveHoursEnd,
			TriggerCount:     rule.TriggerCount,
		}
		if rule.LastTriggered != nil {
			lr.LastTriggered = rule.LastTriggered.Format(legacyTimeLayout)
		}
		if rule.LastChecked != nil {
			lr.LastChecked = rule.LastChecked.Format(legacyTimeLayout)
		}
		out = append(out, lr)
	}
	return json.Marshal(out)
}

// DecodeLegacyCollection parses the legacy double-encoded format back into
// structured rules. Missing or unparseable enum fields are normalized to
// their defaults rather than rejected.
func DecodeLegacyCollection(data []byte) ([]entities.AlertRule, error) {
	var legacy []legacyRule
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("failed to decode legacy rule collection: %w", err)
	}

	rules := make([]entities.AlertRule, 0, len(legacy))
	for i := range legacy {
		lr := &legacy[i]
		rule := entities.AlertRule{
			ID:               lr.ID,
			Name:             lr.Name,
			Description:      lr.Description,
			Severity:         normalizeSeverity(lr.Severity),
			Status:           normalizeStatus(lr.Status),
			Enabled:          lr.Enabled,
			CheckIntervalSec: lr.CheckIntervalSec,
			CooldownMin:      lr.CooldownMin,
			MaxPerDay:        lr.MaxPerDay,
			ActiveHoursStart: lr.ActiveHoursStart,
			ActiveHoursEnd:   lr.ActiveHoursEnd,
			TriggerCount:     lr.TriggerCount,
		}

		if lr.DataSource != "" {
			if err := json.Unmarshal([]byte(lr.DataSource), &rule.DataSource); err != nil {
				return nil, fmt.Errorf("failed to decode data source for rule %q: %w", lr.Name, err)
			}
		}
		if lr.Conditions != "" {
			if err := json.Unmarshal([]byte(lr.Conditions), &rule.Conditions); err != nil {
				return nil, fmt.Errorf("failed to decode conditions for rule %q: %w", lr.Name, err)
			}
		}
		if lr.Actions != "" {
			if err := json.Unmarshal([]byte(lr.Actions), &rule.Actions); err != nil {
				return nil, fmt.Errorf("failed to decode actions for rule %q: %w", lr.Name, err)
			}
		}

		if ts := parseLegacyTime(lr.LastTriggered); ts != nil {
			rule.LastTriggered = ts
		}
		if ts := parseLegacyTime(lr.LastChecked); ts != nil {
			rule.LastChecked = ts
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func normalizeSeverity(s string) string {
	switch s {
	case "info", "warning", "critical", "success":
		return s
	default:
		return "info"
	}
}

func normalizeStatus(s string) string {
	switch s {
	case "active", "snoozed", "acknowledged", "expired", "disabled":
		return s
	default:
		return "active"
	}
}
