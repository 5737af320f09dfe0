package entities

import "time"

// AlertRule defines one monitored condition set: a data source to poll,
// a condition chain to evaluate, and notification actions to dispatch.
type AlertRule struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"size:1000;default:''" json:"description"`
	Severity    string `gorm:"size:20;not null;default:'info'" json:"severity"`
	Status      string `gorm:"size:20;not null;default:'active'" json:"status"`
	Enabled     bool   `gorm:"not null;index" json:"enabled"`
	BuiltIn     bool   `gorm:"not null;default:false" json:"built_in"`

	DataSource AlertDataSource  `gorm:"serializer:json;type:text" json:"data_source"`
	Conditions []AlertCondition `gorm:"foreignKey:RuleID;constraint:OnDelete:CASCADE" json:"conditions"`
	Actions    []AlertAction    `gorm:"foreignKey:RuleID;constraint:OnDelete:CASCADE" json:"actions"`

	// Scheduling
	CheckIntervalSec int    `gorm:"not null;default:300" json:"check_interval_sec"`
	CooldownMin      int    `gorm:"not null;default:0" json:"cooldown_min"`
	MaxPerDay        int    `gorm:"not null;default:10" json:"max_per_day"`
	ActiveHoursStart string `gorm:"size:5;default:''" json:"active_hours_start"`
	ActiveHoursEnd   string `gorm:"size:5;default:''" json:"active_hours_end"`

	// Runtime state, mutated only by the monitor loop.
	LastTriggered *time.Time `json:"last_triggered,omitempty"`
	LastChecked   *time.Time `json:"last_checked,omitempty"`
	TriggerCount  int        `gorm:"not null;default:0" json:"trigger_count"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for GORM.
func (AlertRule) TableName() string {
	return "alert_rules"
}
