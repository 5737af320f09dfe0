package entities

import (
	"strings"
	"time"
)

// History entry statuses.
const (
	HistoryStatusActive       = "active"
	HistoryStatusAcknowledged = "acknowledged"
	HistoryStatusSnoozed      = "snoozed"
)

// HistoryEntry is one append-only audit record of a rule firing.
// RuleName and Severity are snapshots taken at trigger time, not live joins,
// so history stays readable after a rule is edited or deleted.
type HistoryEntry struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	RuleID           uint       `gorm:"not null;index:idx_history_rule_ts,priority:1" json:"rule_id"`
	RuleName         string     `gorm:"size:255;not null" json:"rule_name"`
	Severity         string     `gorm:"size:20;not null" json:"severity"`
	TriggeredValue   string     `gorm:"size:500;default:''" json:"triggered_value"`
	ConditionSummary string     `gorm:"size:1000;default:''" json:"condition_summary"`
	NotifiedChannels string     `gorm:"size:100;default:''" json:"notified_channels"`
	Timestamp        time.Time  `gorm:"not null;index:idx_history_rule_ts,priority:2" json:"timestamp"`
	AcknowledgedBy   string     `gorm:"size:255;default:''" json:"acknowledged_by,omitempty"`
	AcknowledgedAt   *time.Time `json:"acknowledged_at,omitempty"`
	SnoozedUntil     *time.Time `json:"snoozed_until,omitempty"`
	Status           string     `gorm:"size:20;not null;default:'active'" json:"status"`
}

// TableName returns the table name for GORM.
func (HistoryEntry) TableName() string {
	return "alert_history"
}

// Channels splits the comma-joined notified channel names.
func (h *HistoryEntry) Channels() []string {
	if h.NotifiedChannels == "" {
		return nil
	}
	return strings.Split(h.NotifiedChannels, ",")
}
